package reports

import "sort"

// OutlierRow is one anomalously long trip surfaced for inspection.
type OutlierRow struct {
	RideID          string  `json:"ride_id"`
	StartedAt       string  `json:"started_at"`
	DurationSeconds int     `json:"duration_seconds"`
	DurationMinutes int     `json:"duration_minutes"`
	StartStationID  *string `json:"start_station_id"`
	EndStationID    *string `json:"end_station_id"`
	RideableType    string  `json:"rideable_type"`
	MemberCasual    string  `json:"member_casual"`
}

// LongestTrips lists trips exceeding the outlier duration threshold,
// longest first, capped for readability.
func LongestTrips(ds *Dataset) (any, error) {
	rows := make([]OutlierRow, 0)
	for _, t := range ds.Trips {
		if t.DurationSeconds <= outlierDurationSeconds {
			continue
		}
		rows = append(rows, OutlierRow{
			RideID:          t.RideID,
			StartedAt:       t.StartedAt.Format(timestampFormat),
			DurationSeconds: t.DurationSeconds,
			DurationMinutes: toMinutes(t.DurationSeconds),
			StartStationID:  t.StartStationID,
			EndStationID:    t.EndStationID,
			RideableType:    t.RideableType,
			MemberCasual:    t.MemberCasual,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DurationSeconds != rows[j].DurationSeconds {
			return rows[i].DurationSeconds > rows[j].DurationSeconds
		}
		return rows[i].RideID < rows[j].RideID
	})

	if len(rows) > outlierTripCap {
		rows = rows[:outlierTripCap]
	}
	return rows, nil
}
