package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Metadata is the artifact's generation block.
type Metadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	RunID         string    `json:"run_id"`
	ReportCount   int       `json:"report_count"`
	DistanceUnits string    `json:"distance_units"`
}

// Artifact is the consolidated analysis output produced by the pipeline.
// Rows are kept raw; the API forwards them verbatim.
type Artifact struct {
	Metadata Metadata                     `json:"metadata"`
	Results  map[string][]json.RawMessage `json:"results"`
}

// ReportNames lists the contained reports in sorted order.
func (a *Artifact) ReportNames() []string {
	names := make([]string, 0, len(a.Results))
	for name := range a.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load parses an artifact file.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return &art, nil
}

// Provider serves the current artifact, re-reading the file when its
// modification time changes (the pipeline replaces it atomically).
type Provider struct {
	path string

	mu    sync.Mutex
	art   *Artifact
	mtime time.Time
}

// NewProvider creates a provider for the artifact at path. The first read
// happens lazily on Get.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Get returns the current artifact, reloading it if the file changed.
func (p *Provider) Get() (*Artifact, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	if p.art == nil || info.ModTime().After(p.mtime) {
		art, err := Load(p.path)
		if err != nil {
			return nil, err
		}
		p.art = art
		p.mtime = info.ModTime()
	}
	return p.art, nil
}
