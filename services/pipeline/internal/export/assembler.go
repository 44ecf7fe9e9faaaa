package export

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/reports"
)

// Metadata describes one artifact generation run.
type Metadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	RunID         string    `json:"run_id"`
	ReportCount   int       `json:"report_count"`
	DistanceUnits string    `json:"distance_units"`
}

// Artifact is the consolidated output consumed read-only by the
// presentation layer: run metadata plus every report's rows.
type Artifact struct {
	Metadata Metadata       `json:"metadata"`
	Results  map[string]any `json:"results"`
}

// Build runs every report against the dataset. A failing report is logged
// and contributes an empty row set; the remaining reports still run.
func Build(ds *reports.Dataset, catalogue []reports.Report, distanceUnits string) *Artifact {
	art := &Artifact{
		Metadata: Metadata{
			GeneratedAt:   time.Now().UTC(),
			RunID:         uuid.NewString(),
			ReportCount:   len(catalogue),
			DistanceUnits: distanceUnits,
		},
		Results: make(map[string]any, len(catalogue)),
	}

	for _, report := range catalogue {
		start := time.Now()
		rows, err := report.Run(ds)
		if err != nil {
			log.Printf("report %s failed: %v", report.Name, err)
			art.Results[report.Name] = []any{}
			continue
		}
		art.Results[report.Name] = rows
		log.Printf("report %s computed in %s", report.Name, time.Since(start).Round(time.Millisecond))
	}

	return art
}

// Write serializes the artifact to path. The write goes to a temp file in
// the same directory followed by a rename, so consumers never observe a
// partial artifact.
func Write(path string, art *Artifact) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}
