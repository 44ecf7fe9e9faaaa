package stations

import (
	"sort"
	"time"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/models"
)

// Reconciler builds a deduplicated station roster from trip endpoints.
// Merge policy is last-write-wins on non-null fields: a later observation
// overwrites name/coordinates it actually carries, and never clobbers a
// known value with null. Stations lacking both name and coordinates are
// still recorded, since trips may reference them.
type Reconciler struct {
	stations map[string]*models.Station
	now      func() time.Time
}

// NewReconciler returns an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{
		stations: make(map[string]*models.Station),
		now:      time.Now,
	}
}

// Observe inspects both endpoints of a trip and merges them into the roster.
func (r *Reconciler) Observe(trip models.Trip) {
	for _, ep := range trip.Endpoints() {
		if ep.StationID == nil || *ep.StationID == "" {
			continue
		}

		st, ok := r.stations[*ep.StationID]
		if !ok {
			st = &models.Station{ID: *ep.StationID}
			r.stations[*ep.StationID] = st
		}

		if ep.Name != nil {
			st.Name = ep.Name
		}
		if ep.Lat != nil {
			st.Latitude = ep.Lat
		}
		if ep.Lng != nil {
			st.Longitude = ep.Lng
		}
		st.UpdatedAt = r.now().UTC()
	}
}

// Size returns the number of distinct stations observed so far.
func (r *Reconciler) Size() int {
	return len(r.stations)
}

// Roster returns the deduplicated stations ordered by identifier.
func (r *Reconciler) Roster() []models.Station {
	out := make([]models.Station, 0, len(r.stations))
	for _, st := range r.stations {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
