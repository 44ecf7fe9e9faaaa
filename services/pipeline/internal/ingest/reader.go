package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/models"
)

// RowError marks a row that failed validation. Rows rejected this way are
// counted and skipped; they never abort a run.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d rejected: %s", e.Line, e.Reason)
}

// timestampLayouts covers the formats seen across Bay Wheels exports.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339,
}

// Stats accumulates per-run row counts.
type Stats struct {
	Accepted int
	Rejected int
}

// Reader streams normalized trips from one delimited trip-log file.
// It is single-pass: once Next returns io.EOF the underlying stream
// is exhausted.
type Reader struct {
	cr      *csv.Reader
	closer  io.Closer
	columns map[string]int
	line    int
}

// New wraps an already-open stream. The first record is consumed as the
// header row.
func New(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}

	return &Reader{cr: cr, columns: columns, line: 1}, nil
}

// Open opens a trip-log file for streaming. Close must be called when done.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Next returns the next normalized trip. Validation failures, including
// CSV framing errors confined to one record, return a *RowError and the
// reader stays usable; io.EOF signals the end of the file; any other
// error is a resource failure and fatal to the run.
func (r *Reader) Next() (models.Trip, error) {
	record, err := r.cr.Read()
	if err != nil {
		if err == io.EOF {
			return models.Trip{}, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.line++
			return models.Trip{}, &RowError{Line: parseErr.Line, Reason: fmt.Sprintf("malformed csv: %v", parseErr.Err)}
		}
		return models.Trip{}, fmt.Errorf("read row: %w", err)
	}
	r.line++

	return r.normalize(record)
}

func (r *Reader) normalize(record []string) (models.Trip, error) {
	field := func(name string) string {
		idx, ok := r.columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return cleanField(record[idx])
	}

	rideID := field("ride_id")
	if rideID == "" {
		return models.Trip{}, &RowError{Line: r.line, Reason: "missing ride_id"}
	}

	startedAt, err := parseTimestamp(field("started_at"))
	if err != nil {
		return models.Trip{}, &RowError{Line: r.line, Reason: "unparseable started_at"}
	}
	endedAt, err := parseTimestamp(field("ended_at"))
	if err != nil {
		return models.Trip{}, &RowError{Line: r.line, Reason: "unparseable ended_at"}
	}
	if endedAt.Before(startedAt) {
		return models.Trip{}, &RowError{Line: r.line, Reason: "ended_at before started_at"}
	}

	trip := models.Trip{
		RideID:           rideID,
		RideableType:     strings.ToLower(field("rideable_type")),
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		DurationSeconds:  int(endedAt.Sub(startedAt) / time.Second),
		StartStationID:   optionalString(field("start_station_id")),
		EndStationID:     optionalString(field("end_station_id")),
		StartStationName: optionalString(field("start_station_name")),
		EndStationName:   optionalString(field("end_station_name")),
		StartLat:         optionalFloat(field("start_lat")),
		StartLng:         optionalFloat(field("start_lng")),
		EndLat:           optionalFloat(field("end_lat")),
		EndLng:           optionalFloat(field("end_lng")),
		MemberCasual:     strings.ToLower(field("member_casual")),
	}

	return trip, nil
}

// cleanField trims a raw value; empty and the literal "null" mean absent.
func cleanField(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// optionalFloat parses a coordinate field; parse failure yields a null
// coordinate, not a rejection.
func optionalFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseTimestamp(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}

// ListFiles returns the CSV files under dir in lexicographic order, so
// last-write-wins station merges are reproducible across runs.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
