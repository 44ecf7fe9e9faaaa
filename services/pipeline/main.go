package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/config"
	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/db"
	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/export"
	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/ingest"
	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/reports"
	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/stations"
)

func main() {
	cmd := "all"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if err := run(cmd); err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}
}

func run(cmd string) error {
	switch cmd {
	case "init", "ingest", "analyze", "all":
	default:
		return fmt.Errorf("unknown command %q (want init, ingest, analyze or all)", cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cmd == "init" || cmd == "all" {
		if cfg.DryRun {
			log.Printf("dry-run: skipping schema init")
		} else {
			if err := db.InitSchema(ctx, pool); err != nil {
				return err
			}
			log.Printf("schema initialized")
		}
	}

	if cmd == "ingest" || cmd == "all" {
		if err := runIngest(ctx, pool, cfg); err != nil {
			return err
		}
	}

	if cmd == "analyze" || cmd == "all" {
		if err := runAnalyze(ctx, pool, cfg); err != nil {
			return err
		}
	}

	return nil
}

// runIngest executes the sequential ingestion phases: reconcile stations
// across every file, persist all station batches, then re-stream the files
// and persist trips. Stations must be fully loaded before any trip batch
// because trips reference them.
func runIngest(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	files, err := ingest.ListFiles(cfg.DataDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no trip CSV files found in %s", cfg.DataDir)
	}
	log.Printf("found %d trip log files in %s", len(files), cfg.DataDir)

	reconciler := stations.NewReconciler()
	for _, path := range files {
		log.Printf("scanning %s for stations", path)

		reader, err := ingest.Open(path)
		if err != nil {
			return err
		}

		for {
			trip, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			var rowErr *ingest.RowError
			if errors.As(err, &rowErr) {
				continue
			}
			if err != nil {
				reader.Close()
				return fmt.Errorf("%s: %w", path, err)
			}
			reconciler.Observe(trip)
		}
		reader.Close()
	}
	log.Printf("reconciled %d distinct stations", reconciler.Size())

	if cfg.DryRun {
		log.Printf("dry-run: skipping station and trip persistence")
		return nil
	}

	stationRes, err := db.UpsertStations(ctx, pool, reconciler.Roster(), cfg.BatchSize, cfg.ProgressEvery)
	if err != nil {
		return err
	}
	log.Printf("stations loaded: %d upserted, %d failed", stationRes.Inserted, stationRes.Failed)

	loader := db.NewTripLoader(pool, cfg.BatchSize, cfg.ProgressEvery)
	var totals ingest.Stats

	for _, path := range files {
		log.Printf("ingesting trips from %s", path)

		reader, err := ingest.Open(path)
		if err != nil {
			return err
		}

		for {
			trip, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			var rowErr *ingest.RowError
			if errors.As(err, &rowErr) {
				totals.Rejected++
				continue
			}
			if err != nil {
				reader.Close()
				return fmt.Errorf("%s: %w", path, err)
			}

			totals.Accepted++
			if err := loader.Add(ctx, trip); err != nil {
				reader.Close()
				return err
			}
		}
		reader.Close()
	}

	if err := loader.Flush(ctx); err != nil {
		return err
	}

	tripRes := loader.Result()
	log.Printf("ingest summary: %d rows accepted, %d rejected", totals.Accepted, totals.Rejected)
	log.Printf("trips loaded: %d inserted, %d duplicates, %d failed (%d batches)",
		tripRes.Inserted, tripRes.Duplicates, tripRes.Failed, tripRes.Batches)
	return nil
}

func runAnalyze(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	ds, err := reports.LoadDataset(ctx, pool)
	if err != nil {
		return err
	}
	log.Printf("dataset loaded: %d trips, %d stations", len(ds.Trips), len(ds.Stations))

	catalogue := reports.Catalogue(reports.Options{
		DistanceUnits: cfg.DistanceUnits,
		TopRoutes:     cfg.TopRoutes,
	})

	art := export.Build(ds, catalogue, cfg.DistanceUnits)

	if cfg.DryRun {
		log.Printf("dry-run: skipping artifact write (%d reports)", art.Metadata.ReportCount)
		return nil
	}

	if err := export.Write(cfg.ArtifactPath, art); err != nil {
		return err
	}
	log.Printf("artifact written to %s (%d reports, run %s)",
		cfg.ArtifactPath, art.Metadata.ReportCount, art.Metadata.RunID)
	return nil
}
