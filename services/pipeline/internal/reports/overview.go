package reports

const timestampFormat = "2006-01-02 15:04:05"

// OverviewRow is the single-row KPI summary of the whole dataset.
type OverviewRow struct {
	TotalTrips            int     `json:"total_trips"`
	UniqueStations        int     `json:"unique_stations"`
	EarliestTrip          string  `json:"earliest_trip"`
	LatestTrip            string  `json:"latest_trip"`
	AvgDurationSeconds    float64 `json:"avg_duration_seconds"`
	AvgDurationMinutes    int     `json:"avg_duration_minutes"`
	MedianDurationSeconds float64 `json:"median_duration_seconds"`
	MedianDurationMinutes int     `json:"median_duration_minutes"`
	MemberTrips           int     `json:"member_trips"`
	CasualTrips           int     `json:"casual_trips"`
	MemberPercentage      float64 `json:"member_percentage"`
	CasualPercentage      float64 `json:"casual_percentage"`
	ElectricBikeTrips     int     `json:"electric_bike_trips"`
	ClassicBikeTrips      int     `json:"classic_bike_trips"`
	DockedBikeTrips       int     `json:"docked_bike_trips"`
	RoundTrips            int     `json:"round_trips"`
}

// Overview computes the top-level KPIs.
func Overview(ds *Dataset) (any, error) {
	row := OverviewRow{
		TotalTrips:     len(ds.Trips),
		UniqueStations: len(ds.Stations),
	}

	var durSum int64
	durations := make([]int, 0, len(ds.Trips))

	for _, t := range ds.Trips {
		durSum += int64(t.DurationSeconds)
		durations = append(durations, t.DurationSeconds)

		switch t.MemberCasual {
		case "member":
			row.MemberTrips++
		case "casual":
			row.CasualTrips++
		}

		switch t.RideableType {
		case "electric_bike":
			row.ElectricBikeTrips++
		case "classic_bike":
			row.ClassicBikeTrips++
		case "docked_bike":
			row.DockedBikeTrips++
		}

		if t.RoundTrip() {
			row.RoundTrips++
		}
	}

	if len(ds.Trips) > 0 {
		earliest := ds.Trips[0].StartedAt
		latest := ds.Trips[0].StartedAt
		for _, t := range ds.Trips[1:] {
			if t.StartedAt.Before(earliest) {
				earliest = t.StartedAt
			}
			if t.StartedAt.After(latest) {
				latest = t.StartedAt
			}
		}
		row.EarliestTrip = earliest.Format(timestampFormat)
		row.LatestTrip = latest.Format(timestampFormat)
	}

	row.AvgDurationSeconds = mean(durSum, len(ds.Trips))
	row.AvgDurationMinutes = toMinutes(int(row.AvgDurationSeconds))
	row.MedianDurationSeconds = percentile(durations, 0.5)
	row.MedianDurationMinutes = toMinutes(int(row.MedianDurationSeconds))
	row.MemberPercentage = percent(row.MemberTrips, row.TotalTrips)
	row.CasualPercentage = percent(row.CasualTrips, row.TotalTrips)

	return []OverviewRow{row}, nil
}
