package store

import (
	"fmt"
	"time"

	"github.com/chronokv/chronokv/internal/model"
)

// GetAsOf returns the value of the last version of key with timestamp <= t,
// or ok=false if no such version exists (including an unknown key).
// Ties (multiple versions with timestamp == t) resolve to the
// later-inserted (higher index) version, per spec.md §4.B — this falls out
// naturally from scanning forward and always taking the newest qualifying
// index.
func (s *VersionStore) GetAsOf(key string, t time.Time) (string, bool) {
	h := s.Versions(key)

	selected := -1
	for i, v := range h {
		if v.Timestamp.After(t) {
			break
		}
		selected = i
	}
	if selected == -1 {
		return "", false
	}
	return h[selected].Value, true
}

// History returns key's ordered version sequence as-is, empty if absent.
func (s *VersionStore) History(key string) []model.Version {
	return s.Versions(key)
}

// Explain resolves an as-of read the way GetAsOf does, but returns the full
// reasoning trace: which version was selected, which older qualifying
// versions were superseded, and how many versions were excluded for
// occurring after the query time. See spec.md §4.B.
func (s *VersionStore) Explain(key string, t time.Time) model.ExplainResult {
	h := s.Versions(key)

	if len(h) == 0 {
		return model.ExplainResult{
			Key:            key,
			QueryTimestamp: t,
			Found:          false,
			TotalVersions:  0,
			Reasoning:      "Key not found",
		}
	}

	total := len(h)
	selected := -1
	var skipped []model.Version
	excluded := 0

	for i, v := range h {
		if v.Timestamp.After(t) {
			excluded++
			continue
		}
		if selected != -1 {
			skipped = append(skipped, h[selected])
		}
		selected = i
	}

	if selected == -1 {
		return model.ExplainResult{
			Key:            key,
			QueryTimestamp: t,
			Found:          false,
			TotalVersions:  total,
			Reasoning: fmt.Sprintf(
				"No version found at or before the query time: all %d version(s) occurred after the query time",
				total),
		}
	}

	sv := h[selected]
	reasoning := fmt.Sprintf(
		"Selected version at index %d of %d total versions: the most-recent version at-or-before the query time. "+
			"Skipped %d older version(s) that were superseded. "+
			"Excluded %d version(s) that occurred after the query time.",
		selected, total, len(skipped), excluded)

	return model.ExplainResult{
		Key:             key,
		QueryTimestamp:  t,
		Found:           true,
		TotalVersions:   total,
		SelectedVersion: &sv,
		Reasoning:       reasoning,
		SkippedVersions: skipped,
	}
}
