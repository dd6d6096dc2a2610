package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `storage:
  data_dir: /tmp/chronokv-data
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "chronokv-0", cfg.Server.NodeID)
	assert.Equal(t, "/tmp/chronokv-data/wal", cfg.Storage.WALDir)
	assert.Equal(t, "full", cfg.Retention.Mode)
	assert.Equal(t, "SAFE_DEFAULT", cfg.Policy.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "not: valid: yaml: at: all:")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_RetentionModes(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"full is always valid", Config{Retention: RetentionConfig{Mode: "full"}, Policy: PolicyConfig{Name: "STRICT"}}, false},
		{"last_n requires positive n", Config{Retention: RetentionConfig{Mode: "last_n", N: 0}, Policy: PolicyConfig{Name: "STRICT"}}, true},
		{"last_n with positive n is valid", Config{Retention: RetentionConfig{Mode: "last_n", N: 5}, Policy: PolicyConfig{Name: "STRICT"}}, false},
		{"last_t requires positive duration", Config{Retention: RetentionConfig{Mode: "last_t", T: 0}, Policy: PolicyConfig{Name: "STRICT"}}, true},
		{"unknown mode is invalid", Config{Retention: RetentionConfig{Mode: "bogus"}, Policy: PolicyConfig{Name: "STRICT"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_PolicyNames(t *testing.T) {
	cfg := Config{Retention: RetentionConfig{Mode: "full"}, Policy: PolicyConfig{Name: "YOLO"}}
	assert.Error(t, cfg.Validate())
}
