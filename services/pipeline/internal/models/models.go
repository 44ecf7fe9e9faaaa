package models

import "time"

// Trip is a validated trip record normalized from one raw CSV row.
type Trip struct {
	RideID          string
	RideableType    string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	StartStationID  *string
	EndStationID    *string
	StartLat        *float64
	StartLng        *float64
	EndLat          *float64
	EndLng          *float64
	MemberCasual    string

	// Station names travel with the trip only until reconciliation;
	// they are persisted on the stations table, not on trips.
	StartStationName *string
	EndStationName   *string
}

// Endpoint is one side of a trip (start or end) as seen by the
// station reconciler.
type Endpoint struct {
	StationID *string
	Name      *string
	Lat       *float64
	Lng       *float64
}

// Endpoints returns the start-side and end-side station tuples of the trip.
func (t Trip) Endpoints() [2]Endpoint {
	return [2]Endpoint{
		{StationID: t.StartStationID, Name: t.StartStationName, Lat: t.StartLat, Lng: t.StartLng},
		{StationID: t.EndStationID, Name: t.EndStationName, Lat: t.EndLat, Lng: t.EndLng},
	}
}

// RoundTrip reports whether the trip starts and ends at the same station.
func (t Trip) RoundTrip() bool {
	return t.StartStationID != nil && t.EndStationID != nil && *t.StartStationID == *t.EndStationID
}

// Station is one deduplicated station derived from trip endpoints.
type Station struct {
	ID        string
	Name      *string
	Latitude  *float64
	Longitude *float64
	UpdatedAt time.Time
}
