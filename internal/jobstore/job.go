// Package jobstore persists assembly job state and the fingerprint-keyed
// result cache. The worker is the sole writer for a given job identifier;
// correctness relies on that discipline, not on store-level locking.
package jobstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/look-composer/internal/catalog"
)

// SlotProgress tracks how one slot's search went.
type SlotProgress struct {
	Attempted  int  `json:"attempted"`
	Candidates int  `json:"candidates"`
	Filled     bool `json:"filled"`
	Relaxed    bool `json:"relaxed"`
}

// JobError is a structured adapter-level failure recorded on a job. These
// accumulate for observability and never abort the job.
type JobError struct {
	Retailer string    `json:"retailer"`
	Slot     string    `json:"slot"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Job is the mutable process-wide record for one assembly run, keyed by the
// style plan's fingerprint. Once status reaches a terminal state the record
// is immutable.
type Job struct {
	ID          uuid.UUID               `json:"id"`
	LookID      string                  `json:"look_id"`
	Fingerprint string                  `json:"fingerprint"`
	Status      string                  `json:"status"`
	Progress    map[string]SlotProgress `json:"progress"`
	Errors      []JobError              `json:"errors,omitempty"`
	Result      *catalog.LookResponse   `json:"result,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewJob creates a queued job for a plan.
func NewJob(lookID, fingerprint string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:          uuid.New(),
		LookID:      lookID,
		Fingerprint: fingerprint,
		Status:      catalog.StatusQueued,
		Progress:    make(map[string]SlotProgress),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return catalog.TerminalStatus(j.Status)
}

// RecordError appends a structured adapter failure.
func (j *Job) RecordError(retailer, slot, message string) {
	j.Errors = append(j.Errors, JobError{
		Retailer: retailer,
		Slot:     slot,
		Message:  message,
		At:       time.Now().UTC(),
	})
}

// Touch bumps UpdatedAt so external observers can tell the job is alive.
func (j *Job) Touch() {
	j.UpdatedAt = time.Now().UTC()
}

// Store is the job state and result cache contract. Get returns (nil, nil)
// on a miss. GetCached/PutCached form the content-addressed result cache:
// read-before-write, append-only, idempotent on replay.
type Store interface {
	Get(ctx context.Context, jobID uuid.UUID) (*Job, error)
	Put(ctx context.Context, job *Job) error
	GetByFingerprint(ctx context.Context, fingerprint string) (*Job, error)
	GetByLookID(ctx context.Context, lookID string) (*Job, error)
	GetCached(ctx context.Context, fingerprint string) (*catalog.LookResponse, error)
	PutCached(ctx context.Context, fingerprint string, result *catalog.LookResponse) error
}
