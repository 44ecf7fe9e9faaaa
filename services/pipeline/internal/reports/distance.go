package reports

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/models"
)

const (
	earthRadiusKm    = 6371.0
	earthRadiusMiles = 3958.8
)

// Haversine returns the great-circle distance between two points for the
// given earth radius (km or miles).
func Haversine(lat1, lng1, lat2, lng2, radius float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * radius
}

func earthRadius(units string) float64 {
	if units == "miles" {
		return earthRadiusMiles
	}
	return earthRadiusKm
}

// DistanceRow is one bucket of the geodesic distance distribution.
type DistanceRow struct {
	Bucket string `json:"bucket"`
	Trips  int    `json:"trips"`
}

// distanceBuckets are half-open [lo, hi) ranges; the final bucket is
// unbounded, with the plausibility cutoff applied separately.
var distanceBuckets = []struct {
	label string
	lo    float64
	hi    float64
}{
	{"0-1", 0, 1},
	{"1-2", 1, 2},
	{"2-3", 2, 3},
	{"3-5", 3, 5},
	{"5+", 5, math.Inf(1)},
}

// distanceBucketIndex maps a distance to its bucket, or -1 when the
// distance is strictly beyond the plausibility cutoff. A distance of
// exactly maxPlausibleDistance still lands in the final bucket.
func distanceBucketIndex(d float64) int {
	if d > maxPlausibleDistance {
		return -1
	}
	for i, b := range distanceBuckets {
		if d >= b.lo && d < b.hi {
			return i
		}
	}
	return -1
}

// DistanceDistribution buckets trips by haversine distance between their
// raw endpoint coordinates. Trips missing a coordinate, carrying a (0,0)
// placeholder, or strictly farther apart than the plausibility cutoff are
// excluded from the buckets (the raw rows are untouched).
func DistanceDistribution(units string) func(*Dataset) (any, error) {
	radius := earthRadius(units)
	return func(ds *Dataset) (any, error) {
		rows := make([]DistanceRow, len(distanceBuckets))
		for i, b := range distanceBuckets {
			rows[i].Bucket = b.label
		}

		for _, t := range ds.Trips {
			if !hasCoordinates(t) {
				continue
			}
			d := Haversine(*t.StartLat, *t.StartLng, *t.EndLat, *t.EndLng, radius)
			if i := distanceBucketIndex(d); i >= 0 {
				rows[i].Trips++
			}
		}
		return rows, nil
	}
}

// hasCoordinates reports whether both endpoints carry usable GPS fixes.
// A (0,0) pair is a placeholder, not a position.
func hasCoordinates(t models.Trip) bool {
	if t.StartLat == nil || t.StartLng == nil || t.EndLat == nil || t.EndLng == nil {
		return false
	}
	if *t.StartLat == 0 && *t.StartLng == 0 {
		return false
	}
	if *t.EndLat == 0 && *t.EndLng == 0 {
		return false
	}
	return true
}
