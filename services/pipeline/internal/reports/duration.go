package reports

// DurationRow is one bucket of the trip duration distribution.
type DurationRow struct {
	Bucket      string `json:"bucket"`
	Trips       int    `json:"trips"`
	MemberTrips int    `json:"member_trips"`
	CasualTrips int    `json:"casual_trips"`
}

// durationBuckets are half-open minute ranges; the final bucket is open.
var durationBuckets = []struct {
	label      string
	maxMinutes int
}{
	{"0-5", 5},
	{"5-10", 10},
	{"10-20", 20},
	{"20-30", 30},
	{"30+", 0},
}

// DurationDistribution buckets trips by truncated duration minutes,
// split by rider class.
func DurationDistribution(ds *Dataset) (any, error) {
	rows := make([]DurationRow, len(durationBuckets))
	for i, b := range durationBuckets {
		rows[i].Bucket = b.label
	}

	for _, t := range ds.Trips {
		minutes := toMinutes(t.DurationSeconds)
		idx := len(durationBuckets) - 1
		for i, b := range durationBuckets {
			if b.maxMinutes > 0 && minutes < b.maxMinutes {
				idx = i
				break
			}
		}
		rows[idx].Trips++
		switch t.MemberCasual {
		case "member":
			rows[idx].MemberTrips++
		case "casual":
			rows[idx].CasualTrips++
		}
	}
	return rows, nil
}
