package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements recreates the persisted schema from scratch. Running
// them drops any previously ingested data, which is the documented reset
// path before a fresh pipeline run.
var schemaStatements = []string{
	`DROP TABLE IF EXISTS trips CASCADE`,
	`DROP TABLE IF EXISTS stations CASCADE`,
	`CREATE TABLE stations (
		station_id TEXT PRIMARY KEY,
		name TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE trips (
		trip_id BIGSERIAL PRIMARY KEY,
		ride_id TEXT UNIQUE NOT NULL,
		rideable_type TEXT,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP NOT NULL,
		duration_seconds INT NOT NULL,
		start_station_id TEXT REFERENCES stations(station_id) ON DELETE SET NULL,
		end_station_id TEXT REFERENCES stations(station_id) ON DELETE SET NULL,
		start_lat DOUBLE PRECISION,
		start_lng DOUBLE PRECISION,
		end_lat DOUBLE PRECISION,
		end_lng DOUBLE PRECISION,
		member_casual TEXT
	)`,
	`CREATE INDEX idx_trips_started_at ON trips(started_at)`,
	`CREATE INDEX idx_trips_start_station ON trips(start_station_id)`,
	`CREATE INDEX idx_trips_end_station ON trips(end_station_id)`,
	`CREATE INDEX idx_trips_start_end_stations ON trips(start_station_id, end_station_id)`,
	`CREATE INDEX idx_trips_member_casual ON trips(member_casual)`,
}

// Connect opens a pgx pool against the configured database.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// InitSchema drops and recreates the stations and trips tables.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
