package reports

import "sort"

// RouteRow is one canonical undirected route. Station A always carries the
// lexicographically smaller identifier, so A→B and B→A traffic collapses
// into a single row.
type RouteRow struct {
	StationAID         string  `json:"station_a_id"`
	StationAName       *string `json:"station_a_name"`
	StationBID         string  `json:"station_b_id"`
	StationBName       *string `json:"station_b_name"`
	Trips              int     `json:"trips"`
	MemberTrips        int     `json:"member_trips"`
	CasualTrips        int     `json:"casual_trips"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	AvgDurationMinutes int     `json:"avg_duration_minutes"`
	MostCommonRideable string  `json:"most_common_rideable_type"`
}

type routeAgg struct {
	trips     int
	member    int
	casual    int
	durSum    int64
	rideables map[string]int
}

// TopRoutes aggregates trips between distinct stations into canonical
// pairs and returns the top limit pairs by trip count. Self-loops never
// appear here; they are tallied as round trips in the overview.
func TopRoutes(limit int) func(*Dataset) (any, error) {
	return func(ds *Dataset) (any, error) {
		pairs := make(map[[2]string]*routeAgg)

		for _, t := range ds.Trips {
			if t.StartStationID == nil || t.EndStationID == nil {
				continue
			}
			a, b := *t.StartStationID, *t.EndStationID
			if a == b {
				continue
			}
			if b < a {
				a, b = b, a
			}

			key := [2]string{a, b}
			agg, ok := pairs[key]
			if !ok {
				agg = &routeAgg{rideables: make(map[string]int)}
				pairs[key] = agg
			}
			agg.trips++
			switch t.MemberCasual {
			case "member":
				agg.member++
			case "casual":
				agg.casual++
			}
			agg.durSum += int64(t.DurationSeconds)
			if t.RideableType != "" {
				agg.rideables[t.RideableType]++
			}
		}

		rows := make([]RouteRow, 0, len(pairs))
		for key, agg := range pairs {
			avgSeconds := mean(agg.durSum, agg.trips)
			rows = append(rows, RouteRow{
				StationAID:         key[0],
				StationAName:       ds.StationName(key[0]),
				StationBID:         key[1],
				StationBName:       ds.StationName(key[1]),
				Trips:              agg.trips,
				MemberTrips:        agg.member,
				CasualTrips:        agg.casual,
				AvgDurationSeconds: avgSeconds,
				AvgDurationMinutes: toMinutes(int(avgSeconds)),
				MostCommonRideable: mode(agg.rideables),
			})
		}

		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Trips != rows[j].Trips {
				return rows[i].Trips > rows[j].Trips
			}
			if rows[i].StationAID != rows[j].StationAID {
				return rows[i].StationAID < rows[j].StationAID
			}
			return rows[i].StationBID < rows[j].StationBID
		})

		if len(rows) > limit {
			rows = rows[:limit]
		}
		return rows, nil
	}
}
