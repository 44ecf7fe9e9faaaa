package reports

import (
	"testing"
	"time"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/models"
)

func strp(s string) *string { return &s }

func fp(f float64) *float64 { return &f }

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 2, hour, min, 0, 0, time.UTC) // a Sunday
}

func trip(id, member string, started time.Time, durSeconds int, from, to *string) models.Trip {
	return models.Trip{
		RideID:          id,
		MemberCasual:    member,
		StartedAt:       started,
		EndedAt:         started.Add(time.Duration(durSeconds) * time.Second),
		DurationSeconds: durSeconds,
		StartStationID:  from,
		EndStationID:    to,
	}
}

func testDataset(trips ...models.Trip) *Dataset {
	return &Dataset{
		Trips: trips,
		Stations: map[string]models.Station{
			"A": {ID: "A", Name: strp("Station A"), Latitude: fp(37.77), Longitude: fp(-122.41)},
			"B": {ID: "B", Name: strp("Station B"), Latitude: fp(37.78), Longitude: fp(-122.40)},
		},
	}
}

func TestOverview(t *testing.T) {
	t1 := trip("T1", "member", at(10, 0), 720, strp("A"), strp("B"))
	t1.RideableType = "electric_bike"
	t2 := trip("T2", "casual", at(9, 0), 300, strp("B"), strp("A"))
	t2.RideableType = "classic_bike"
	t3 := trip("T3", "member", at(11, 0), 60, strp("A"), strp("A"))

	out, err := Overview(testDataset(t1, t2, t3))
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]OverviewRow)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]

	if row.TotalTrips != 3 {
		t.Errorf("TotalTrips = %d, want 3", row.TotalTrips)
	}
	if row.UniqueStations != 2 {
		t.Errorf("UniqueStations = %d, want 2", row.UniqueStations)
	}
	if row.EarliestTrip != "2025-03-02 09:00:00" {
		t.Errorf("EarliestTrip = %q", row.EarliestTrip)
	}
	if row.LatestTrip != "2025-03-02 11:00:00" {
		t.Errorf("LatestTrip = %q", row.LatestTrip)
	}
	if row.MemberTrips != 2 || row.CasualTrips != 1 {
		t.Errorf("split = %d/%d, want 2/1", row.MemberTrips, row.CasualTrips)
	}
	if row.MemberPercentage != 66.7 {
		t.Errorf("MemberPercentage = %v, want 66.7", row.MemberPercentage)
	}
	if row.ElectricBikeTrips != 1 || row.ClassicBikeTrips != 1 || row.DockedBikeTrips != 0 {
		t.Errorf("vehicle split = %d/%d/%d", row.ElectricBikeTrips, row.ClassicBikeTrips, row.DockedBikeTrips)
	}
	if row.RoundTrips != 1 {
		t.Errorf("RoundTrips = %d, want 1", row.RoundTrips)
	}
	if row.AvgDurationSeconds != 360 {
		t.Errorf("AvgDurationSeconds = %v, want 360", row.AvgDurationSeconds)
	}
	if row.AvgDurationMinutes != 6 {
		t.Errorf("AvgDurationMinutes = %d, want 6", row.AvgDurationMinutes)
	}
	if row.MedianDurationSeconds != 300 {
		t.Errorf("MedianDurationSeconds = %v, want 300", row.MedianDurationSeconds)
	}
}

func TestOverviewEmptyDataset(t *testing.T) {
	out, err := Overview(&Dataset{Stations: map[string]models.Station{}})
	if err != nil {
		t.Fatal(err)
	}
	row := out.([]OverviewRow)[0]

	if row.TotalTrips != 0 {
		t.Errorf("TotalTrips = %d", row.TotalTrips)
	}
	// Percentages must be well-defined with a zero denominator.
	if row.MemberPercentage != 0 || row.CasualPercentage != 0 {
		t.Errorf("percentages = %v/%v, want 0/0", row.MemberPercentage, row.CasualPercentage)
	}
	if row.EarliestTrip != "" || row.LatestTrip != "" {
		t.Errorf("timestamps should be empty for empty dataset")
	}
}

func TestTopRoutesCanonicalSymmetry(t *testing.T) {
	// Spec scenario: T1 A→B member, T2 B→A casual must collapse into one
	// canonical (A,B) row with trips = 2.
	ds := testDataset(
		trip("T1", "member", at(10, 0), 720, strp("A"), strp("B")),
		trip("T2", "casual", at(9, 0), 300, strp("B"), strp("A")),
	)

	out, err := TopRoutes(50)(ds)
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]RouteRow)
	if len(rows) != 1 {
		t.Fatalf("got %d route rows, want exactly 1 canonical pair", len(rows))
	}

	row := rows[0]
	if row.StationAID != "A" || row.StationBID != "B" {
		t.Errorf("pair = (%s, %s), want (A, B)", row.StationAID, row.StationBID)
	}
	if row.Trips != 2 {
		t.Errorf("Trips = %d, want 2", row.Trips)
	}
	if row.MemberTrips != 1 || row.CasualTrips != 1 {
		t.Errorf("split = %d/%d, want 1/1", row.MemberTrips, row.CasualTrips)
	}
	if row.AvgDurationSeconds != 510 {
		t.Errorf("AvgDurationSeconds = %v, want 510", row.AvgDurationSeconds)
	}
	if row.StationAName == nil || *row.StationAName != "Station A" {
		t.Errorf("StationAName = %v", row.StationAName)
	}
}

func TestTopRoutesExcludesSelfLoopsAndNullEndpoints(t *testing.T) {
	ds := testDataset(
		trip("T1", "member", at(10, 0), 60, strp("A"), strp("A")),
		trip("T2", "member", at(10, 0), 60, strp("A"), nil),
		trip("T3", "member", at(10, 0), 60, nil, strp("B")),
	)

	out, err := TopRoutes(50)(ds)
	if err != nil {
		t.Fatal(err)
	}
	if rows := out.([]RouteRow); len(rows) != 0 {
		t.Errorf("got %d route rows, want 0", len(rows))
	}
}

func TestTopRoutesLimitAndOrdering(t *testing.T) {
	var trips []models.Trip
	// 3 trips A↔B, 1 trip A↔C.
	trips = append(trips,
		trip("T1", "member", at(10, 0), 60, strp("A"), strp("B")),
		trip("T2", "member", at(10, 0), 60, strp("B"), strp("A")),
		trip("T3", "member", at(10, 0), 60, strp("A"), strp("B")),
		trip("T4", "member", at(10, 0), 60, strp("A"), strp("C")),
	)

	out, err := TopRoutes(1)(testDataset(trips...))
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]RouteRow)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want limit of 1", len(rows))
	}
	if rows[0].StationAID != "A" || rows[0].StationBID != "B" || rows[0].Trips != 3 {
		t.Errorf("top row = %+v, want A-B with 3 trips", rows[0])
	}
}

func TestTopRoutesModeRideable(t *testing.T) {
	t1 := trip("T1", "member", at(10, 0), 60, strp("A"), strp("B"))
	t1.RideableType = "electric_bike"
	t2 := trip("T2", "member", at(10, 0), 60, strp("A"), strp("B"))
	t2.RideableType = "electric_bike"
	t3 := trip("T3", "member", at(10, 0), 60, strp("B"), strp("A"))
	t3.RideableType = "classic_bike"

	out, err := TopRoutes(50)(testDataset(t1, t2, t3))
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]RouteRow)
	if rows[0].MostCommonRideable != "electric_bike" {
		t.Errorf("MostCommonRideable = %q, want electric_bike", rows[0].MostCommonRideable)
	}
}

func TestTopStationsCountsTripOncePerStation(t *testing.T) {
	ds := testDataset(
		trip("T1", "member", at(10, 0), 60, strp("A"), strp("B")),
		trip("T2", "casual", at(10, 0), 60, strp("A"), strp("A")), // round trip touches A once
	)

	out, err := TopStations(ds)
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]StationRow)

	var a, b *StationRow
	for i := range rows {
		switch rows[i].StationID {
		case "A":
			a = &rows[i]
		case "B":
			b = &rows[i]
		}
	}
	if a == nil || b == nil {
		t.Fatalf("missing station rows: %+v", rows)
	}

	if a.Trips != 2 {
		t.Errorf("A.Trips = %d, want 2 (round trip counted once)", a.Trips)
	}
	if a.MemberTrips != 1 || a.CasualTrips != 1 {
		t.Errorf("A split = %d/%d, want 1/1", a.MemberTrips, a.CasualTrips)
	}
	if a.RoundTrips != 1 {
		t.Errorf("A.RoundTrips = %d, want 1", a.RoundTrips)
	}
	if b.Trips != 1 {
		t.Errorf("B.Trips = %d, want 1", b.Trips)
	}

	// Sorted descending by trips.
	if rows[0].StationID != "A" {
		t.Errorf("rows[0] = %s, want A (highest trip count first)", rows[0].StationID)
	}
}

func TestTopStationsCarryCoordinates(t *testing.T) {
	ds := testDataset(
		trip("T1", "member", at(10, 0), 60, strp("A"), strp("B")),
		trip("T2", "member", at(10, 0), 60, strp("Z"), nil), // not in the roster
	)

	out, err := TopStations(ds)
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]StationRow)

	for _, row := range rows {
		switch row.StationID {
		case "A":
			if row.Latitude == nil || *row.Latitude != 37.77 {
				t.Errorf("A.Latitude = %v, want 37.77", row.Latitude)
			}
			if row.Longitude == nil || *row.Longitude != -122.41 {
				t.Errorf("A.Longitude = %v, want -122.41", row.Longitude)
			}
		case "Z":
			if row.Latitude != nil || row.Longitude != nil {
				t.Errorf("Z coordinates = %v/%v, want nil for unknown station", row.Latitude, row.Longitude)
			}
		}
	}
}

func TestTopRoundTrips(t *testing.T) {
	ds := testDataset(
		trip("T1", "member", at(10, 0), 60, strp("A"), strp("A")),
		trip("T2", "casual", at(11, 0), 60, strp("A"), strp("A")),
		trip("T3", "member", at(12, 0), 60, strp("B"), strp("B")),
		trip("T4", "member", at(13, 0), 60, strp("A"), strp("B")), // not a loop
	)

	out, err := TopRoundTrips(ds)
	if err != nil {
		t.Fatal(err)
	}
	rows := out.([]RoundTripRow)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].StationID != "A" || rows[0].RoundTrips != 2 {
		t.Errorf("rows[0] = %+v, want A with 2 round trips", rows[0])
	}
	if rows[1].StationID != "B" || rows[1].RoundTrips != 1 {
		t.Errorf("rows[1] = %+v, want B with 1 round trip", rows[1])
	}
	if rows[0].Name == nil || *rows[0].Name != "Station A" {
		t.Errorf("rows[0].Name = %v", rows[0].Name)
	}
	if rows[0].Latitude == nil || *rows[0].Latitude != 37.77 {
		t.Errorf("rows[0].Latitude = %v, want 37.77", rows[0].Latitude)
	}
}
