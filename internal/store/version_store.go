// Package store implements chronokv's version store (spec.md §4.A) and its
// temporal resolver (spec.md §4.B): the per-key ordered history of
// (timestamp, value) versions, retention enforcement, and as-of / explain
// reads over that history.
package store

import (
	"sync"
	"time"

	"github.com/chronokv/chronokv/internal/model"
	"go.uber.org/zap"
)

// VersionStore holds, per key, an ordered (non-decreasing timestamp) list of
// versions. It is grounded on the teacher's MemTableService: a
// mutex-guarded in-memory structure exposing Put/Get plus a retention
// sweep triggered on write.
type VersionStore struct {
	mu        sync.RWMutex
	data      map[string][]model.Version
	retention model.RetentionPolicy
	logger    *zap.Logger
}

// NewVersionStore creates an empty version store under the given retention
// policy.
func NewVersionStore(retention model.RetentionPolicy, logger *zap.Logger) *VersionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VersionStore{
		data:      make(map[string][]model.Version),
		retention: retention,
		logger:    logger,
	}
}

// AppendVersion pushes a new version onto key's history and then applies
// retention. Well-behaved callers supply non-decreasing timestamps per key
// (live writes use "now"; replay uses logged timestamps in file order); this
// method preserves input order exactly regardless, per spec.md §4.A.
func (s *VersionStore) AppendVersion(key, value string, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append(s.data[key], model.Version{Timestamp: ts, Value: value})
	s.applyRetentionLocked(key)
}

// Latest returns the most recent value for key, or ok=false if the key is
// absent.
func (s *VersionStore) Latest(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.data[key]
	if len(h) == 0 {
		return "", false
	}
	return h[len(h)-1].Value, true
}

// Versions returns a copy of key's ordered history, empty if the key is
// absent.
func (s *VersionStore) Versions(key string) []model.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.data[key]
	out := make([]model.Version, len(h))
	copy(out, h)
	return out
}

// Exists reports whether key currently has a non-empty history.
func (s *VersionStore) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[key]) > 0
}

// Remove deletes key's entire history. Returns true if the key was present.
func (s *VersionStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}

// AllLatest returns a snapshot map of key to its latest value, used to build
// WAL snapshots.
func (s *VersionStore) AllLatest() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.data))
	for k, h := range s.data {
		if len(h) > 0 {
			out[k] = h[len(h)-1].Value
		}
	}
	return out
}

// SetRetention replaces the retention policy and re-applies it to every
// key, per spec.md §4.A ApplyRetentionAll.
func (s *VersionStore) SetRetention(pol model.RetentionPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.retention = pol
	for key := range s.data {
		s.applyRetentionLocked(key)
	}
}

// Retention returns the current retention policy.
func (s *VersionStore) Retention() model.RetentionPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retention
}

// Stats returns the current number of distinct keys and the total number of
// versions stored across all of them, for metrics reporting.
func (s *VersionStore) Stats() (keys int, versions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range s.data {
		if len(h) > 0 {
			keys++
		}
		versions += len(h)
	}
	return keys, versions
}

// applyRetentionLocked evicts from the front of key's history according to
// the current retention policy. Callers must hold s.mu.
func (s *VersionStore) applyRetentionLocked(key string) {
	h := s.data[key]
	if len(h) == 0 {
		return
	}

	switch s.retention.Kind {
	case model.RetentionFull:
		// no-op
	case model.RetentionLastN:
		if s.retention.N > 0 && len(h) > s.retention.N {
			h = h[len(h)-s.retention.N:]
		}
	case model.RetentionLastT:
		if s.retention.T > 0 {
			cutoff := time.Now().Add(-s.retention.T)
			i := 0
			for i < len(h) && h[i].Timestamp.Before(cutoff) {
				i++
			}
			h = h[i:]
		}
	}

	s.data[key] = h
}
