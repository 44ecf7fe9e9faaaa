package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/models"
)

// Dataset is the fully-loaded, read-only view of the persisted tables that
// every report computes against. Reports never mutate it.
type Dataset struct {
	Trips    []models.Trip
	Stations map[string]models.Station
}

// LoadDataset reads the persisted stations and trips into memory.
func LoadDataset(ctx context.Context, pool *pgxpool.Pool) (*Dataset, error) {
	ds := &Dataset{Stations: make(map[string]models.Station)}

	rows, err := pool.Query(ctx, `SELECT station_id, name, latitude, longitude, updated_at FROM stations`)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		ds.Stations[st.ID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	rows.Close()

	tripRows, err := pool.Query(ctx, `
SELECT ride_id, rideable_type, started_at, ended_at, duration_seconds,
       start_station_id, end_station_id,
       start_lat, start_lng, end_lat, end_lng, member_casual
FROM trips
ORDER BY started_at, ride_id`)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}
	defer tripRows.Close()

	for tripRows.Next() {
		var t models.Trip
		var rideable, memberCasual *string
		if err := tripRows.Scan(
			&t.RideID, &rideable, &t.StartedAt, &t.EndedAt, &t.DurationSeconds,
			&t.StartStationID, &t.EndStationID,
			&t.StartLat, &t.StartLng, &t.EndLat, &t.EndLng, &memberCasual,
		); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if rideable != nil {
			t.RideableType = *rideable
		}
		if memberCasual != nil {
			t.MemberCasual = *memberCasual
		}
		ds.Trips = append(ds.Trips, t)
	}
	if err := tripRows.Err(); err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}

	return ds, nil
}

// StationName resolves a station id to its display name, if known.
func (d *Dataset) StationName(id string) *string {
	if st, ok := d.Stations[id]; ok {
		return st.Name
	}
	return nil
}
