package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDataDir       = "./data/raw"
	defaultArtifactPath  = "./data/derived/master_analysis.json"
	defaultBatchSize     = 1000
	defaultTopRoutes     = 200
	defaultProgressEvery = 25
	defaultUnits         = "km"
)

// Config holds runtime configuration for the pipeline service.
type Config struct {
	DatabaseURL   string
	DataDir       string
	ArtifactPath  string
	BatchSize     int
	TopRoutes     int
	ProgressEvery int
	DistanceUnits string
	DryRun        bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		DataDir:       defaultDataDir,
		ArtifactPath:  defaultArtifactPath,
		BatchSize:     defaultBatchSize,
		TopRoutes:     defaultTopRoutes,
		ProgressEvery: defaultProgressEvery,
		DistanceUnits: defaultUnits,
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if v := strings.TrimSpace(os.Getenv("DATA_DIR")); v != "" {
		cfg.DataDir = v
	}

	if v := strings.TrimSpace(os.Getenv("ARTIFACT_PATH")); v != "" {
		cfg.ArtifactPath = v
	}

	if v := strings.TrimSpace(os.Getenv("PIPELINE_BATCH_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid PIPELINE_BATCH_SIZE: %s", v)
		}
		cfg.BatchSize = n
	}

	if v := strings.TrimSpace(os.Getenv("TOP_ROUTES_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid TOP_ROUTES_LIMIT: %s", v)
		}
		cfg.TopRoutes = n
	}

	if v := strings.TrimSpace(os.Getenv("PIPELINE_PROGRESS_EVERY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid PIPELINE_PROGRESS_EVERY: %s", v)
		}
		cfg.ProgressEvery = n
	}

	if v := strings.TrimSpace(os.Getenv("DISTANCE_UNITS")); v != "" {
		v = strings.ToLower(v)
		if v != "km" && v != "miles" {
			return cfg, fmt.Errorf("invalid DISTANCE_UNITS: %s (want km or miles)", v)
		}
		cfg.DistanceUnits = v
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}
