package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct{ healthy bool }

func (f fakeStore) WALHealthy() bool { return f.healthy }

func TestChecker_HealthyWALAndWritableDir(t *testing.T) {
	c := NewChecker(fakeStore{healthy: true}, t.TempDir(), zap.NewNop())
	c.runChecks()

	status, checks := c.StatusSnapshot()
	assert.Equal(t, StatusHealthy, status)
	assert.True(t, c.IsLive())
	assert.True(t, c.IsReady())

	require.Contains(t, checks, "wal_durability")
	assert.Equal(t, StatusHealthy, checks["wal_durability"].Status)
}

func TestChecker_DegradedWALStillReady(t *testing.T) {
	c := NewChecker(fakeStore{healthy: false}, t.TempDir(), zap.NewNop())
	c.runChecks()

	status, checks := c.StatusSnapshot()
	assert.Equal(t, StatusDegraded, status)
	assert.True(t, c.IsReady(), "a degraded (non-durable) WAL should not fail readiness")
	assert.Equal(t, StatusDegraded, checks["wal_durability"].Status)
}

func TestChecker_UnwritableDataDirIsCritical(t *testing.T) {
	c := NewChecker(fakeStore{healthy: true}, "/nonexistent/chronokv/data/dir", zap.NewNop())
	c.runChecks()

	status, checks := c.StatusSnapshot()
	assert.Equal(t, StatusCritical, status)
	assert.False(t, c.IsReady())
	assert.Equal(t, StatusCritical, checks["data_dir_writable"].Status)
}

func TestChecker_NilStoreDefaultsHealthy(t *testing.T) {
	c := NewChecker(nil, t.TempDir(), zap.NewNop())
	c.runChecks()

	_, checks := c.StatusSnapshot()
	assert.Equal(t, StatusHealthy, checks["wal_durability"].Status)
}
