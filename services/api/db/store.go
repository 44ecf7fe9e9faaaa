package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Station represents one station row from the persisted roster.
type Station struct {
	ID        string    `json:"station_id"`
	Name      *string   `json:"name,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

const listStationsSQL = `
    SELECT station_id, name, latitude, longitude, updated_at
    FROM stations
    ORDER BY station_id
`

// ListStations returns the full station roster.
func (s *Store) ListStations(ctx context.Context) ([]Station, error) {
	rows, err := s.pool.Query(ctx, listStationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]Station, 0)
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

const getStationSQL = `
    SELECT station_id, name, latitude, longitude, updated_at
    FROM stations
    WHERE station_id = $1
`

// GetStation returns one station, or nil when the id is unknown.
func (s *Store) GetStation(ctx context.Context, id string) (*Station, error) {
	var st Station
	err := s.pool.QueryRow(ctx, getStationSQL, id).Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
