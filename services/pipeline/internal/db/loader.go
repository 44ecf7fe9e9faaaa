package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baywheels-unlocked/analytics/services/pipeline/internal/models"
)

const upsertStationSQL = `INSERT INTO stations (station_id, name, latitude, longitude, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (station_id) DO UPDATE
SET name = EXCLUDED.name,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    updated_at = EXCLUDED.updated_at`

const insertTripSQL = `INSERT INTO trips (
	ride_id, rideable_type, started_at, ended_at, duration_seconds,
	start_station_id, end_station_id,
	start_lat, start_lng, end_lat, end_lng, member_casual
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (ride_id) DO NOTHING`

// LoadResult tallies the outcome of a batched load.
type LoadResult struct {
	Inserted   int
	Duplicates int
	Failed     int
	Batches    int
}

// UpsertStations persists the station roster in fixed-size batches, one
// transaction per batch. A constraint failure inside a batch rolls back
// only that batch; the load continues and the failed rows are tallied.
// Stations must be fully loaded before any trip batch runs.
func UpsertStations(ctx context.Context, pool *pgxpool.Pool, roster []models.Station, batchSize, progressEvery int) (LoadResult, error) {
	var res LoadResult
	for start := 0; start < len(roster); start += batchSize {
		end := start + batchSize
		if end > len(roster) {
			end = len(roster)
		}
		chunk := roster[start:end]

		batch := &pgx.Batch{}
		for _, st := range chunk {
			batch.Queue(upsertStationSQL, st.ID, st.Name, st.Latitude, st.Longitude, st.UpdatedAt)
		}

		applied, _, err := runBatch(ctx, pool, batch)
		res.Batches++
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				res.Failed += len(chunk)
				log.Printf("station batch %d failed (%s): %s", res.Batches, pgErr.Code, pgErr.Message)
				continue
			}
			return res, fmt.Errorf("station batch %d: %w", res.Batches, err)
		}
		res.Inserted += applied

		if progressEvery > 0 && res.Batches%progressEvery == 0 {
			log.Printf("  … %d stations upserted", res.Inserted)
		}
	}
	return res, nil
}

// TripLoader buffers trips and persists them in fixed-size batches, one
// transaction per batch. Re-ingestion of an already-seen ride_id is an
// idempotent no-op counted as a duplicate, never an overwrite.
type TripLoader struct {
	pool          *pgxpool.Pool
	batchSize     int
	progressEvery int
	buf           []models.Trip
	res           LoadResult
}

// NewTripLoader returns a loader flushing every batchSize trips.
func NewTripLoader(pool *pgxpool.Pool, batchSize, progressEvery int) *TripLoader {
	return &TripLoader{
		pool:          pool,
		batchSize:     batchSize,
		progressEvery: progressEvery,
		buf:           make([]models.Trip, 0, batchSize),
	}
}

// Add buffers one trip, flushing when the batch is full.
func (l *TripLoader) Add(ctx context.Context, trip models.Trip) error {
	l.buf = append(l.buf, trip)
	if len(l.buf) >= l.batchSize {
		return l.flush(ctx)
	}
	return nil
}

// Flush persists any buffered trips.
func (l *TripLoader) Flush(ctx context.Context) error {
	return l.flush(ctx)
}

// Result returns the running tally.
func (l *TripLoader) Result() LoadResult {
	return l.res
}

func (l *TripLoader) flush(ctx context.Context) error {
	if len(l.buf) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range l.buf {
		batch.Queue(insertTripSQL,
			t.RideID, t.RideableType, t.StartedAt, t.EndedAt, t.DurationSeconds,
			t.StartStationID, t.EndStationID,
			t.StartLat, t.StartLng, t.EndLat, t.EndLng, t.MemberCasual,
		)
	}

	size := len(l.buf)
	l.buf = l.buf[:0]

	inserted, skipped, err := runBatch(ctx, l.pool, batch)
	l.res.Batches++
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Integrity failure (e.g. dangling station reference, 23503):
			// this batch is lost, the run continues.
			l.res.Failed += size
			log.Printf("trip batch %d failed (%s): %s", l.res.Batches, pgErr.Code, pgErr.Message)
			return nil
		}
		return fmt.Errorf("trip batch %d: %w", l.res.Batches, err)
	}

	l.res.Inserted += inserted
	l.res.Duplicates += skipped

	if l.progressEvery > 0 && l.res.Batches%l.progressEvery == 0 {
		log.Printf("  … %d trips inserted (%d duplicates, %d failed)", l.res.Inserted, l.res.Duplicates, l.res.Failed)
	}
	return nil
}

// runBatch executes a pgx batch inside its own transaction and reports how
// many statements changed a row versus conflicted into a no-op.
func runBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch) (applied, skipped int, err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin: %w", err)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		ct, execErr := br.Exec()
		if execErr != nil {
			_ = br.Close()
			_ = tx.Rollback(ctx)
			return 0, 0, execErr
		}
		if ct.RowsAffected() == 0 {
			skipped++
		} else {
			applied++
		}
	}
	if err := br.Close(); err != nil {
		_ = tx.Rollback(ctx)
		return 0, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return applied, skipped, nil
}
