// Package kv implements chronokv's store façade (spec.md §4.F): it binds
// the version store, guard registry, write evaluator and WAL into the
// single API a command parser, shell, or HTTP adapter would consume. None
// of those adapters live in this repository — see spec.md §1 — but this
// package is the surface they would call.
//
// Orchestration style (validate, durably log, then mutate in-memory state,
// with every step logged through zap) is grounded on the teacher's
// StorageService.Write/Read/Delete.
package kv

import (
	"sync"
	"time"

	"github.com/chronokv/chronokv/internal/guard"
	"github.com/chronokv/chronokv/internal/metrics"
	"github.com/chronokv/chronokv/internal/model"
	"github.com/chronokv/chronokv/internal/policy"
	"github.com/chronokv/chronokv/internal/store"
	"github.com/chronokv/chronokv/internal/wal"
	"go.uber.org/zap"
)

// Status is the small status enum spec.md §6 carries across the API
// boundary; richer error information lives in WriteEvaluation fields
// instead of in this enum.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusError
)

// Store is chronokv's single entry point: the façade binding the version
// store, guard registry, write evaluator and WAL together.
type Store struct {
	mu sync.RWMutex // outer lock; see spec.md §5 — the core itself is single-threaded

	versions  *store.VersionStore
	guards    *guard.Registry
	evaluator *policy.Evaluator
	wal       *wal.WAL
	policy    model.DecisionPolicy

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithMetrics registers Prometheus metrics on the store.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithRetention sets the store's initial retention policy.
func WithRetention(p model.RetentionPolicy) Option {
	return func(s *Store) { s.versions.SetRetention(p) }
}

// WithPolicy sets the store's initial decision policy (overridden by
// replay if the WAL/snapshot record a later POLICY SET).
func WithPolicy(p model.DecisionPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// Open creates a store backed by a WAL rooted at dir, replaying any
// existing snapshot and log before returning. syncWrites controls whether
// every WAL append is followed by an fsync.
func Open(dir string, syncWrites bool, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		versions:  store.NewVersionStore(model.FullRetention(), logger),
		guards:    guard.NewRegistry(),
		policy:    model.SafeDefault,
		logger:    logger,
		wal:       wal.New(dir, syncWrites, logger),
	}
	s.evaluator = policy.NewEvaluator(s.guards, logger)

	for _, opt := range opts {
		opt(s)
	}

	s.replay()

	if s.metrics != nil {
		s.mu.RLock()
		s.recordStoreSizeLocked()
		s.recordWALStateLocked()
		s.mu.RUnlock()
	}

	return s
}

// Set writes a new version of key, timestamped "now". Writes bypass guard
// evaluation entirely — see Propose/Commit for the guarded path.
func (s *Store) Set(key, value string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.wal.Enabled() {
		start := time.Now()
		err := s.wal.LogSet(key, value, now.UnixMilli())
		if s.metrics != nil {
			s.metrics.WALAppendsTotal.Inc()
			s.metrics.WALAppendDuration.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			s.logger.Warn("wal logSet failed, continuing non-durably", zap.String("key", key), zap.Error(err))
		}
	}

	s.versions.AppendVersion(key, value, now)
	if s.metrics != nil {
		s.metrics.WritesTotal.Inc()
		s.recordStoreSizeLocked()
		s.recordWALStateLocked()
	}
	return StatusOK
}

// SetAtTime appends a version at an explicit timestamp without touching the
// WAL. It exists for replay.
func (s *Store) SetAtTime(key, value string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions.AppendVersion(key, value, t)
}

// Get returns the latest value of key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions.Latest(key)
}

// GetAsOf returns the value of key as of timestamp t.
func (s *Store) GetAsOf(key string, t time.Time) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions.GetAsOf(key, t)
}

// History returns key's ordered version sequence.
func (s *Store) History(key string) []model.Version {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions.History(key)
}

// Explain returns the full reasoning trace for an as-of read.
func (s *Store) Explain(key string, t time.Time) model.ExplainResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.metrics != nil {
		s.metrics.ExplainRequestsTotal.Inc()
	}
	return s.versions.Explain(key, t)
}

// Del removes key's entire history. Returns StatusNotFound if key was
// already absent.
func (s *Store) Del(key string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.versions.Exists(key) {
		return StatusNotFound
	}

	if s.wal.Enabled() {
		if err := s.wal.LogDel(key); err != nil {
			s.logger.Warn("wal logDel failed, continuing non-durably", zap.String("key", key), zap.Error(err))
		}
	}

	s.versions.Remove(key)
	if s.metrics != nil {
		s.metrics.DeletesTotal.Inc()
		s.recordStoreSizeLocked()
		s.recordWALStateLocked()
	}
	return StatusOK
}

// Propose evaluates a prospective write against the guard registry and the
// active decision policy, without mutating any component (spec.md I6).
func (s *Store) Propose(key, value string) model.WriteEvaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev := s.evaluator.Simulate(key, value)
	ev = policy.ApplyPolicy(ev, s.policy)
	if s.metrics != nil {
		s.metrics.ProposalsTotal.WithLabelValues(ev.Result.String()).Inc()
		for _, g := range ev.TriggeredGuards {
			s.metrics.GuardTriggeredTotal.WithLabelValues(g).Inc()
		}
	}
	return ev
}

// Commit writes value under key directly, bypassing guard evaluation. It
// exists so callers can override after a counter-offer or rejection.
func (s *Store) Commit(key, value string) Status {
	return s.Set(key, value)
}

// AddGuard registers a new guard.
func (s *Store) AddGuard(g model.Guard) {
	s.guards.Add(g)
}

// RemoveGuard deletes the first guard with the given name.
func (s *Store) RemoveGuard(name string) bool {
	return s.guards.Remove(name)
}

// ListGuards returns every registered guard.
func (s *Store) ListGuards() []model.Guard {
	return s.guards.List()
}

// GuardsForKey returns the enabled guards applicable to key.
func (s *Store) GuardsForKey(key string) []model.Guard {
	return s.guards.ForKey(key)
}

// SetPolicy changes the active decision policy, logging the change to the
// WAL so it survives restarts.
func (s *Store) SetPolicy(p model.DecisionPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy = p
	if s.wal.Enabled() {
		if err := s.wal.LogPolicy(p.String()); err != nil {
			s.logger.Warn("wal logPolicy failed, continuing non-durably", zap.Error(err))
		}
	}
}

// GetPolicy returns the active decision policy.
func (s *Store) GetPolicy() model.DecisionPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetRetention replaces the retention policy, re-applying it to every key.
func (s *Store) SetRetention(p model.RetentionPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions.SetRetention(p)
}

// AllLatest returns a snapshot of every key's latest value.
func (s *Store) AllLatest() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions.AllLatest()
}

// SetWalLogging gates WAL writes. Replay uses this to suppress re-logging
// mutations it is itself replaying.
func (s *Store) SetWalLogging(enabled bool) {
	s.wal.SetEnabled(enabled)
}

// CreateSnapshot compacts the store's latest values (plus current policy)
// into the snapshot file and truncates the WAL (spec.md invariant I5).
func (s *Store) CreateSnapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.versions.AllLatest()
	if err := s.wal.CreateSnapshot(latest, s.policy.String()); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SnapshotsTotal.Inc()
		s.recordWALStateLocked()
	}
	return nil
}

// recordStoreSizeLocked refreshes the key/version gauges. Callers must hold
// s.mu and have already confirmed s.metrics is non-nil.
func (s *Store) recordStoreSizeLocked() {
	keys, versions := s.versions.Stats()
	s.metrics.KeysTotal.Set(float64(keys))
	s.metrics.VersionsTotal.Set(float64(versions))
}

// recordWALStateLocked refreshes the WAL durability gauge. Callers must hold
// s.mu and have already confirmed s.metrics is non-nil.
func (s *Store) recordWALStateLocked() {
	if s.wal.Enabled() {
		s.metrics.WALDurabilityState.Set(1)
	} else {
		s.metrics.WALDurabilityState.Set(0)
	}
}

// Close flushes and releases the underlying WAL file.
func (s *Store) Close() error {
	return s.wal.Close()
}

// walEnabled reports whether the WAL is currently accepting writes. Exposed
// for health checks.
func (s *Store) walEnabled() bool {
	return s.wal.Enabled()
}

// WALHealthy reports whether the WAL is open and durable. Used by
// internal/health.
func (s *Store) WALHealthy() bool {
	return s.walEnabled()
}
