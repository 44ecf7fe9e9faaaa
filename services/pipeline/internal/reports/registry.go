package reports

// Report is one named aggregation over the dataset. Run is a pure
// computation; a failure affects only this report's rows.
type Report struct {
	Name string
	Run  func(*Dataset) (any, error)
}

// Options tunes the report catalogue.
type Options struct {
	// DistanceUnits selects the haversine earth radius: "km" or "miles".
	DistanceUnits string
	// TopRoutes caps the canonical-routes report row count.
	TopRoutes int
}

const (
	defaultTopRoutes = 200
	// Row cap for the round-trip station ranking.
	roundTripStationCap = 20
	// Trips longer than this are surfaced by the longest_trips report.
	outlierDurationSeconds = 2 * 60 * 60
	outlierTripCap         = 100
	// Distances strictly beyond this are treated as GPS error and
	// excluded from the distribution buckets.
	maxPlausibleDistance = 50.0
)

// Catalogue returns the fixed set of reports in their run order.
func Catalogue(opts Options) []Report {
	if opts.TopRoutes <= 0 {
		opts.TopRoutes = defaultTopRoutes
	}
	if opts.DistanceUnits == "" {
		opts.DistanceUnits = "km"
	}

	return []Report{
		{Name: "overview", Run: Overview},
		{Name: "top_stations", Run: TopStations},
		{Name: "top_routes", Run: TopRoutes(opts.TopRoutes)},
		{Name: "top_round_trips", Run: TopRoundTrips},
		{Name: "trips_by_hour", Run: TripsByHour},
		{Name: "trips_by_day_of_week", Run: TripsByDayOfWeek},
		{Name: "trips_by_month", Run: TripsByMonth},
		{Name: "distance_distribution", Run: DistanceDistribution(opts.DistanceUnits)},
		{Name: "duration_distribution", Run: DurationDistribution},
		{Name: "start_station_heatmap", Run: StartStationHeatmap},
		{Name: "morning_peak_heatmap", Run: MorningPeakHeatmap},
		{Name: "evening_peak_heatmap", Run: EveningPeakHeatmap},
		{Name: "longest_trips", Run: LongestTrips},
	}
}
