package kv

import (
	"time"

	"github.com/chronokv/chronokv/internal/model"
	"github.com/chronokv/chronokv/internal/wal"
	"go.uber.org/zap"
)

// replay reconstructs the store's state from the snapshot and WAL, per
// spec.md §4.E's two-phase protocol: snapshot first, then a policy-only
// pass over the log, then a data pass over the log. WAL logging is
// suppressed for the duration so replayed mutations are not re-appended to
// the very log they were read from.
func (s *Store) replay() {
	wasEnabled := s.wal.Enabled()
	s.wal.SetEnabled(false)
	defer s.wal.SetEnabled(wasEnabled)

	snapshotLines, err := s.wal.ReadSnapshot()
	if err != nil {
		s.logger.Warn("failed to read snapshot during replay", zap.Error(err))
	}
	logLines, err := s.wal.ReadLog()
	if err != nil {
		s.logger.Warn("failed to read wal during replay", zap.Error(err))
	}

	snapshotLoadTime := time.Now()

	// Phase 0: snapshot. A POLICY SET line, if present, precedes the SET
	// lines; apply it first so the SET lines don't depend on ordering.
	for _, line := range snapshotLines {
		rec, ok := wal.ParseRecord(line)
		if !ok {
			s.logger.Warn("skipping malformed snapshot record", zap.String("line", line))
			continue
		}
		switch rec.Kind {
		case wal.RecordPolicySet:
			s.applyPolicyRecord(rec)
		case wal.RecordSet:
			s.versions.AppendVersion(rec.Key, rec.Value, snapshotLoadTime)
		default:
			s.logger.Warn("unexpected record kind in snapshot", zap.Int("kind", int(rec.Kind)))
		}
	}

	// Phase 1: policy replay. Scan every log record so the final policy
	// reflects the last POLICY SET, regardless of what data records follow.
	for _, line := range logLines {
		rec, ok := wal.ParseRecord(line)
		if !ok {
			continue
		}
		if rec.Kind == wal.RecordPolicySet {
			s.applyPolicyRecord(rec)
		}
	}

	// Phase 2: data replay.
	for _, line := range logLines {
		rec, ok := wal.ParseRecord(line)
		if !ok {
			s.logger.Warn("skipping malformed wal record", zap.String("line", line))
			continue
		}
		switch rec.Kind {
		case wal.RecordSet:
			ts := time.Now()
			if rec.HasTimestamp {
				ts = time.UnixMilli(rec.EpochMillis)
			}
			s.versions.AppendVersion(rec.Key, rec.Value, ts)
		case wal.RecordDel:
			s.versions.Remove(rec.Key)
		case wal.RecordPolicySet, wal.RecordGuardAdd:
			// Policy already applied in phase 1; GUARD ADD replay is
			// reserved and not required by spec.md §4.E.
		default:
			s.logger.Warn("ignoring unknown record kind during replay", zap.Int("kind", int(rec.Kind)))
		}
	}
}

func (s *Store) applyPolicyRecord(rec wal.Record) {
	p, ok := model.ParsePolicy(rec.PolicyName)
	if !ok {
		s.logger.Warn("ignoring unknown policy name during replay", zap.String("name", rec.PolicyName))
		return
	}
	s.policy = p
}
