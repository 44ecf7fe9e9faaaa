package reports

import "sort"

// HeatmapRow is one start-coordinate cell with its trip count.
type HeatmapRow struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Trips int     `json:"trips"`
}

// StartStationHeatmap groups trips by their exact start coordinates.
func StartStationHeatmap(ds *Dataset) (any, error) {
	return heatmap(ds, 0, 23), nil
}

// MorningPeakHeatmap covers trips starting between 07:00 and 10:59.
func MorningPeakHeatmap(ds *Dataset) (any, error) {
	return heatmap(ds, 7, 10), nil
}

// EveningPeakHeatmap covers trips starting between 16:00 and 19:59.
func EveningPeakHeatmap(ds *Dataset) (any, error) {
	return heatmap(ds, 16, 19), nil
}

// heatmap counts trips per distinct start coordinate, restricted to the
// inclusive start-hour window. Trips without a start fix are skipped.
// Rows come back in coordinate order so repeated runs over the same data
// produce identical artifacts.
func heatmap(ds *Dataset, fromHour, toHour int) []HeatmapRow {
	type cell struct{ lat, lng float64 }
	counts := make(map[cell]int)

	for _, t := range ds.Trips {
		if t.StartLat == nil || t.StartLng == nil {
			continue
		}
		if h := t.StartedAt.Hour(); h < fromHour || h > toHour {
			continue
		}
		counts[cell{*t.StartLat, *t.StartLng}]++
	}

	rows := make([]HeatmapRow, 0, len(counts))
	for c, n := range counts {
		rows = append(rows, HeatmapRow{Lat: c.lat, Lng: c.lng, Trips: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Lat != rows[j].Lat {
			return rows[i].Lat < rows[j].Lat
		}
		return rows[i].Lng < rows[j].Lng
	})
	return rows
}
