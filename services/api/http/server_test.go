package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/baywheels-unlocked/analytics/services/api/artifact"
	"github.com/baywheels-unlocked/analytics/services/api/config"
	"github.com/baywheels-unlocked/analytics/services/api/db"
)

type stubStore struct {
	stations []db.Station
}

func (s *stubStore) ListStations(ctx context.Context) ([]db.Station, error) {
	return s.stations, nil
}

func (s *stubStore) GetStation(ctx context.Context, id string) (*db.Station, error) {
	for i := range s.stations {
		if s.stations[i].ID == id {
			return &s.stations[i], nil
		}
	}
	return nil, nil
}

const testArtifact = `{
  "metadata": {"generated_at": "2025-08-01T12:00:00Z", "run_id": "run-1", "report_count": 2, "distance_units": "km"},
  "results": {
    "overview": [{"total_trips": 3}],
    "top_routes": [{"trips": 3}, {"trips": 2}, {"trips": 1}]
  }
}`

func name(s string) *string { return &s }

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "master_analysis.json")
	if err := os.WriteFile(path, []byte(testArtifact), 0o644); err != nil {
		t.Fatal(err)
	}

	store := &stubStore{stations: []db.Station{
		{ID: "A", Name: name("Station A")},
		{ID: "B", Name: name("Station B")},
	}}

	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = 100
	}
	return New(cfg, store, artifact.NewProvider(path))
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	w := get(srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestListReports(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	w := get(srv, "/api/v1/reports")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Reports []string `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Reports) != 2 || body.Reports[0] != "overview" || body.Reports[1] != "top_routes" {
		t.Errorf("reports = %v", body.Reports)
	}
}

func TestGetReportPagination(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	w := get(srv, "/api/v1/reports/top_routes?limit=1&offset=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Total  int               `json:"total"`
		Offset int               `json:"offset"`
		Count  int               `json:"count"`
		Rows   []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 3 || body.Offset != 1 || body.Count != 1 || len(body.Rows) != 1 {
		t.Errorf("pagination = %+v", body)
	}

	var row struct {
		Trips int `json:"trips"`
	}
	if err := json.Unmarshal(body.Rows[0], &row); err != nil {
		t.Fatal(err)
	}
	if row.Trips != 2 {
		t.Errorf("row.Trips = %d, want 2 (second row)", row.Trips)
	}
}

func TestGetReportUnknownName(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	if w := get(srv, "/api/v1/reports/nope"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetReportInvalidPagination(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	if w := get(srv, "/api/v1/reports/overview?limit=zero"); w.Code != http.StatusBadRequest {
		t.Errorf("limit status = %d, want 400", w.Code)
	}
	if w := get(srv, "/api/v1/reports/overview?offset=-1"); w.Code != http.StatusBadRequest {
		t.Errorf("offset status = %d, want 400", w.Code)
	}
}

func TestOverviewShortcut(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	w := get(srv, "/api/v1/overview")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Rows []struct {
			TotalTrips int `json:"total_trips"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Rows) != 1 || body.Rows[0].TotalTrips != 3 {
		t.Errorf("overview rows = %+v", body.Rows)
	}
}

func TestListStations(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	w := get(srv, "/api/v1/stations")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Data []db.Station `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 2 {
		t.Errorf("stations = %d, want 2", len(body.Data))
	}
}

func TestGetStationNotFound(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	if w := get(srv, "/api/v1/stations/missing"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(t, config.Config{BearerToken: "secret"})

	if w := get(srv, "/api/v1/reports"); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer secret")
	srv.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", w.Code)
	}
}
