package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultGRPCAddr, cfg.GRPC.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Empty(t, cfg.Journal.Path)
	require.NotNil(t, cfg.Journal.SyncOnWrite)
	assert.True(t, *cfg.Journal.SyncOnWrite)

	loc, err := cfg.Ledger.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
grpc:
  addr: "127.0.0.1:6000"
log:
  level: debug
journal:
  path: /tmp/journal.log
  syncOnWrite: false
ledger:
  timezone: UTC
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6000", cfg.GRPC.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/journal.log", cfg.Journal.Path)
	assert.False(t, *cfg.Journal.SyncOnWrite)

	loc, err := cfg.Ledger.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, "ledger:\n  timezone: Mars/Olympus\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "grpc: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}
