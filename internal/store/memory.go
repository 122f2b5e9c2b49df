// ABOUTME: In-memory Store implementation for tests.
// ABOUTME: Mirrors the SQLite semantics without touching disk.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/2389/folio/internal/convert"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu         sync.Mutex
	selections map[string]convert.Kind
	jobs       map[string]*Job
	jobOrder   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		selections: make(map[string]convert.Kind),
		jobs:       make(map[string]*Job),
	}
}

func (m *MemoryStore) Selection(_ context.Context, roomID string) (convert.Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selections[roomID], nil
}

func (m *MemoryStore) SetSelection(_ context.Context, roomID string, kind convert.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[roomID] = kind
	return nil
}

func (m *MemoryStore) RecordJob(_ context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *job
	m.jobs[job.ID] = &copied
	m.jobOrder = append(m.jobOrder, job.ID)
	return nil
}

func (m *MemoryStore) FinishJob(_ context.Context, id string, status JobStatus, detail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	now := time.Now().UTC()
	job.Status = status
	job.Detail = detail
	job.FinishedAt = &now
	return nil
}

// Jobs returns all recorded jobs in insertion order.
func (m *MemoryStore) Jobs() []*Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Job, 0, len(m.jobOrder))
	for _, id := range m.jobOrder {
		copied := *m.jobs[id]
		out = append(out, &copied)
	}
	return out
}

func (m *MemoryStore) Close() error {
	return nil
}
