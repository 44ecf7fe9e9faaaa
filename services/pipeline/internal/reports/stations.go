package reports

import "sort"

// StationRow is the per-station rollup. A trip touching the same station
// at both ends counts once. Coordinates come from the reconciled roster
// so the rows can be plotted without a join.
type StationRow struct {
	StationID   string   `json:"station_id"`
	Name        *string  `json:"name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Trips       int      `json:"trips"`
	MemberTrips int      `json:"member_trips"`
	CasualTrips int      `json:"casual_trips"`
	RoundTrips  int      `json:"round_trips"`
}

// TopStations rolls up trip counts per station, start or end side.
func TopStations(ds *Dataset) (any, error) {
	byID := make(map[string]*StationRow, len(ds.Stations))
	for id, st := range ds.Stations {
		byID[id] = &StationRow{
			StationID: id,
			Name:      st.Name,
			Latitude:  st.Latitude,
			Longitude: st.Longitude,
		}
	}

	touch := func(id string, member, casual, roundTrip bool) {
		row, ok := byID[id]
		if !ok {
			// Trip references a station missing from the roster; still count it.
			row = &StationRow{StationID: id}
			byID[id] = row
		}
		row.Trips++
		if member {
			row.MemberTrips++
		}
		if casual {
			row.CasualTrips++
		}
		if roundTrip {
			row.RoundTrips++
		}
	}

	for _, t := range ds.Trips {
		member := t.MemberCasual == "member"
		casual := t.MemberCasual == "casual"
		roundTrip := t.RoundTrip()

		if t.StartStationID != nil {
			touch(*t.StartStationID, member, casual, roundTrip)
		}
		if t.EndStationID != nil && (t.StartStationID == nil || *t.EndStationID != *t.StartStationID) {
			touch(*t.EndStationID, member, casual, roundTrip)
		}
	}

	rows := make([]StationRow, 0, len(byID))
	for _, row := range byID {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Trips != rows[j].Trips {
			return rows[i].Trips > rows[j].Trips
		}
		return rows[i].StationID < rows[j].StationID
	})
	return rows, nil
}

// RoundTripRow ranks a station by loop trips that start and end there.
type RoundTripRow struct {
	StationID  string   `json:"station_id"`
	Name       *string  `json:"name"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	RoundTrips int      `json:"round_trips"`
}

// TopRoundTrips counts round trips per station and returns the busiest
// loop stations in descending order.
func TopRoundTrips(ds *Dataset) (any, error) {
	counts := make(map[string]int)
	for _, t := range ds.Trips {
		if t.RoundTrip() {
			counts[*t.StartStationID]++
		}
	}

	rows := make([]RoundTripRow, 0, len(counts))
	for id, n := range counts {
		row := RoundTripRow{StationID: id, RoundTrips: n}
		if st, ok := ds.Stations[id]; ok {
			row.Name = st.Name
			row.Latitude = st.Latitude
			row.Longitude = st.Longitude
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RoundTrips != rows[j].RoundTrips {
			return rows[i].RoundTrips > rows[j].RoundTrips
		}
		return rows[i].StationID < rows[j].StationID
	})
	if len(rows) > roundTripStationCap {
		rows = rows[:roundTripStationCap]
	}
	return rows, nil
}
