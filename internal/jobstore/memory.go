package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/look-composer/internal/catalog"
)

// MemoryStore is an in-memory Store used by the CLI and tests. Values are
// deep-copied through JSON on the way in and out so callers never share
// mutable state with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	jobs         map[uuid.UUID][]byte
	fingerprints map[string]uuid.UUID
	lookIDs      map[string]uuid.UUID
	cache        map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:         make(map[uuid.UUID][]byte),
		fingerprints: make(map[string]uuid.UUID),
		lookIDs:      make(map[string]uuid.UUID),
		cache:        make(map[string][]byte),
	}
}

// Get returns a job by ID, or (nil, nil) when absent.
func (s *MemoryStore) Get(_ context.Context, jobID uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return decodeJob(raw)
}

// Put stores a snapshot of the job.
func (s *MemoryStore) Put(_ context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = raw
	s.fingerprints[job.Fingerprint] = job.ID
	s.lookIDs[job.LookID] = job.ID
	return nil
}

// GetByLookID returns the most recent job for a look identifier, or
// (nil, nil).
func (s *MemoryStore) GetByLookID(_ context.Context, lookID string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobID, ok := s.lookIDs[lookID]
	if !ok {
		return nil, nil
	}
	raw, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return decodeJob(raw)
}

// GetByFingerprint returns the job for a plan fingerprint, or (nil, nil).
func (s *MemoryStore) GetByFingerprint(_ context.Context, fingerprint string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobID, ok := s.fingerprints[fingerprint]
	if !ok {
		return nil, nil
	}
	raw, ok := s.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return decodeJob(raw)
}

// GetCached returns a cached result by fingerprint, or (nil, nil).
func (s *MemoryStore) GetCached(_ context.Context, fingerprint string) (*catalog.LookResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.cache[fingerprint]
	if !ok {
		return nil, nil
	}

	var result catalog.LookResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}

// PutCached stores a result under the plan fingerprint. Re-writing the same
// fingerprint is allowed and expected to be a no-op in effect.
func (s *MemoryStore) PutCached(_ context.Context, fingerprint string, result *catalog.LookResponse) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[fingerprint] = raw
	return nil
}

func decodeJob(raw []byte) (*Job, error) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

var _ Store = (*MemoryStore)(nil)
