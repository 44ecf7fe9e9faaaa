package reports

import (
	"sort"
	"time"
)

// HourRow buckets trips by hour of day, 0-23. All 24 buckets are always
// emitted so charts get a stable axis.
type HourRow struct {
	Hour               int `json:"hour"`
	Trips              int `json:"trips"`
	MemberTrips        int `json:"member_trips"`
	CasualTrips        int `json:"casual_trips"`
	AvgDurationMinutes int `json:"avg_duration_minutes"`
}

// TripsByHour groups trips by start hour.
func TripsByHour(ds *Dataset) (any, error) {
	rows := make([]HourRow, 24)
	durSums := make([]int64, 24)
	for h := range rows {
		rows[h].Hour = h
	}

	for _, t := range ds.Trips {
		h := t.StartedAt.Hour()
		rows[h].Trips++
		durSums[h] += int64(t.DurationSeconds)
		switch t.MemberCasual {
		case "member":
			rows[h].MemberTrips++
		case "casual":
			rows[h].CasualTrips++
		}
	}

	for h := range rows {
		rows[h].AvgDurationMinutes = toMinutes(int(mean(durSums[h], rows[h].Trips)))
	}
	return rows, nil
}

// DayOfWeekRow buckets trips by day of week, Sunday=0 through Saturday=6.
type DayOfWeekRow struct {
	DayIndex    int    `json:"day_index"`
	Day         string `json:"day"`
	Trips       int    `json:"trips"`
	MemberTrips int    `json:"member_trips"`
	CasualTrips int    `json:"casual_trips"`
}

// TripsByDayOfWeek groups trips by start weekday.
func TripsByDayOfWeek(ds *Dataset) (any, error) {
	rows := make([]DayOfWeekRow, 7)
	for d := range rows {
		rows[d].DayIndex = d
		rows[d].Day = time.Weekday(d).String()
	}

	for _, t := range ds.Trips {
		d := int(t.StartedAt.Weekday())
		rows[d].Trips++
		switch t.MemberCasual {
		case "member":
			rows[d].MemberTrips++
		case "casual":
			rows[d].CasualTrips++
		}
	}
	return rows, nil
}

// MonthRow buckets trips by calendar month (YYYY-MM). Only observed months
// are emitted, in chronological order.
type MonthRow struct {
	Month       string `json:"month"`
	Trips       int    `json:"trips"`
	MemberTrips int    `json:"member_trips"`
	CasualTrips int    `json:"casual_trips"`
}

// TripsByMonth groups trips by start month.
func TripsByMonth(ds *Dataset) (any, error) {
	byMonth := make(map[string]*MonthRow)

	for _, t := range ds.Trips {
		key := t.StartedAt.Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = &MonthRow{Month: key}
			byMonth[key] = row
		}
		row.Trips++
		switch t.MemberCasual {
		case "member":
			row.MemberTrips++
		case "casual":
			row.CasualTrips++
		}
	}

	rows := make([]MonthRow, 0, len(byMonth))
	for _, row := range byMonth {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows, nil
}
