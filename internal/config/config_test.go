package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobtool.yaml")
	content := "allocator:\n  kind: mmap\n  trace: true\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mmap", cfg.Allocator.Kind)
	assert.True(t, cfg.Allocator.Trace)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console, "unset keys keep their defaults")
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOBTOOL_ALLOCATOR_KIND", "mmap")
	t.Setenv("BLOBTOOL_LOGGING_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mmap", cfg.Allocator.Kind)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Allocator.Kind = "tape"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Logging.Level = "verbose"
	require.Error(t, cfg.Validate())
}
