package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersWithoutPanicking(t *testing.T) {
	m := New()

	// Just verify none of these panic against the live registry.
	m.WritesTotal.Inc()
	m.DeletesTotal.Inc()
	m.ProposalsTotal.WithLabelValues("Accept").Inc()
	m.GuardTriggeredTotal.WithLabelValues("range").Inc()
	m.ExplainRequestsTotal.Inc()
	m.SnapshotsTotal.Inc()
	m.WALAppendsTotal.Inc()
	m.WALAppendDuration.Observe(0.01)
	m.WALDurabilityState.Set(1)
	m.KeysTotal.Set(3)
	m.VersionsTotal.Set(7)
}

func TestNew_ReturnsSingleton(t *testing.T) {
	a := New()
	b := New()
	assert.Same(t, a, b, "a second call must not re-register collectors")
}
