package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-dashboard/internal/modal"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.HTTPAddr)
	assert.Equal(t, EngineLocal, cfg.Engine)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.VerifyAfter)
	assert.Equal(t, 3*time.Second, cfg.Timing.ConfirmAfter)
	assert.Equal(t, 5*time.Second, cfg.Timing.RemoveAfter)
	assert.Equal(t, "https://suiscan.xyz/mainnet", cfg.ExplorerURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MARKET_ENGINE", "Temporal")
	t.Setenv("MARKET_TIMING_REMOVE_AFTER", "7s")
	t.Setenv("MARKET_TEMPORAL_HOST_PORT", "temporal:7233")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, EngineTemporal, cfg.Engine)
	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, 7*time.Second, cfg.Timing.RemoveAfter)
}

func TestLoadRejectsBadValues(t *testing.T) {
	v := New()
	v.Set(keyEngine, "carrier-pigeon")
	_, err := Load(v)
	require.ErrorIs(t, err, ErrUnknownEngine)

	v = New()
	v.Set(keyRemoveAfter, "2s")
	_, err = Load(v)
	require.ErrorIs(t, err, modal.ErrInvalidTiming)
}

func TestFlagsAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte("explorer_url: https://explorer.test/\ntiming:\n  verify_after: 1s\n"), 0o600))

	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--http_addr", "127.0.0.1:9999"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, "https://explorer.test", cfg.ExplorerURL)
	assert.Equal(t, time.Second, cfg.Timing.VerifyAfter)
}
