package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/look-composer/internal/catalog"
)

// PGStore is the PostgreSQL-backed Store. Jobs and cached results are
// stored as JSONB payloads keyed by id and fingerprint.
//
// Expected schema:
//
//	CREATE TABLE look_jobs (
//	    id          UUID PRIMARY KEY,
//	    look_id     TEXT NOT NULL,
//	    fingerprint TEXT NOT NULL,
//	    payload     JSONB NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE UNIQUE INDEX look_jobs_fingerprint ON look_jobs (fingerprint);
//	CREATE INDEX look_jobs_look_id ON look_jobs (look_id);
//
//	CREATE TABLE look_results (
//	    fingerprint TEXT PRIMARY KEY,
//	    payload     JSONB NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PGStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Get returns a job by ID, or (nil, nil) when absent.
func (s *PGStore) Get(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM look_jobs WHERE id = $1`,
		jobID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return decodeJob(payload)
}

// Put upserts the job payload by ID.
func (s *PGStore) Put(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO look_jobs (id, look_id, fingerprint, payload, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (id) DO UPDATE SET payload = $4, updated_at = NOW()`,
		job.ID, job.LookID, job.Fingerprint, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// GetByFingerprint returns the job for a plan fingerprint, or (nil, nil).
func (s *PGStore) GetByFingerprint(ctx context.Context, fingerprint string) (*Job, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM look_jobs WHERE fingerprint = $1`,
		fingerprint,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job by fingerprint: %w", err)
	}
	return decodeJob(payload)
}

// GetByLookID returns the most recently updated job for a look identifier,
// or (nil, nil).
func (s *PGStore) GetByLookID(ctx context.Context, lookID string) (*Job, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM look_jobs WHERE look_id = $1
		 ORDER BY updated_at DESC LIMIT 1`,
		lookID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job by look id: %w", err)
	}
	return decodeJob(payload)
}

// GetCached returns a cached result by fingerprint, or (nil, nil).
func (s *PGStore) GetCached(ctx context.Context, fingerprint string) (*catalog.LookResponse, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM look_results WHERE fingerprint = $1`,
		fingerprint,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cached result: %w", err)
	}

	var result catalog.LookResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}

// PutCached stores a result under the plan fingerprint. The cache is
// append-only in spirit: a conflicting write simply keeps the first value.
func (s *PGStore) PutCached(ctx context.Context, fingerprint string, result *catalog.LookResponse) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO look_results (fingerprint, payload)
		 VALUES ($1, $2)
		 ON CONFLICT (fingerprint) DO NOTHING`,
		fingerprint, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save cached result: %w", err)
	}
	return nil
}

var _ Store = (*PGStore)(nil)
