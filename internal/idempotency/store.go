// Package idempotency collapses repeated mutating requests that carry the
// same Idempotency-Key into one execution.
package idempotency

import (
	"context"
	"sync"
	"time"
)

// Record is the stored outcome of a request. Done is false while the first
// request is still running.
type Record struct {
	Done        bool   `json:"done"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Store claims keys and remembers responses.
type Store interface {
	// Begin claims key. When claimed is false, rec is whatever the first
	// claimant stored.
	Begin(ctx context.Context, key string, ttl time.Duration) (rec Record, claimed bool, err error)
	Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error
	// Release forgets key so the request can be retried.
	Release(ctx context.Context, key string) error
}

type memoryEntry struct {
	rec     Record
	expires time.Time
}

// sweepInterval bounds how often MemoryStore scans for expired entries.
const sweepInterval = time.Minute

// MemoryStore keeps records in process. Used when no redis is configured.
// Expired entries are swept at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Begin(_ context.Context, key string, ttl time.Duration) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	if e, ok := s.entries[key]; ok && now.Before(e.expires) {
		return e.rec, false, nil
	}
	s.entries[key] = memoryEntry{expires: now.Add(ttl)}
	return Record{}, true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Done = true
	s.entries[key] = memoryEntry{rec: rec, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}
