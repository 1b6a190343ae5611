package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 2, cfg.Negotiation.TieMargin)
	require.Equal(t, Template, cfg.Strategy.Kind)
	require.Equal(t, 3, cfg.Strategy.DMZs)
}

func TestLoadConfig(t *testing.T) {
	t.Run("Empty path", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("Missing file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("Partial file keeps other defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dipnego.yaml")
		writeFile(t, path, `
negotiation:
  round_duration: 750ms
  tie_margin: 1
strategy:
  kind: random
  seed: 42
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 750*time.Millisecond, cfg.Negotiation.RoundDuration)
		require.Equal(t, 1, cfg.Negotiation.TieMargin)
		require.Equal(t, Random, cfg.Strategy.Kind)
		require.Equal(t, uint64(42), cfg.Strategy.Seed)
		require.Equal(t, 32, cfg.Negotiation.DrainLimit)
		require.Equal(t, 1901, cfg.Simulation.StartYear)
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, path, "negotiation: [unclosed")
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("Invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, path, "strategy:\n  kind: telepathy\nnegotiation:\n  drain_limit: 0\n")
		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "telepathy")
		require.ErrorContains(t, err, "drain_limit")
	})

	t.Run("Invalid strategy counts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, path, `
strategy:
  kind: random
  dmzs: -1
  commitments: -2
  provinces_per_dmz: 0
  search_tries: -3
`)
		_, err := LoadConfig(path)
		require.ErrorContains(t, err, "strategy.dmzs")
		require.ErrorContains(t, err, "strategy.commitments")
		require.ErrorContains(t, err, "strategy.provinces_per_dmz")
		require.ErrorContains(t, err, "strategy.search_tries")
	})
}

func TestReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dipnego.yaml")
	writeFile(t, path, "negotiation:\n  tie_margin: 2\n")

	r, err := NewReloader(path)
	require.NoError(t, err)
	r.debounce = 10 * time.Millisecond
	require.Equal(t, 2, r.Current().Negotiation.TieMargin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	writeFile(t, path, "negotiation:\n  tie_margin: 5\n")
	require.Eventually(t, func() bool {
		return r.Current().Negotiation.TieMargin == 5
	}, 5*time.Second, 20*time.Millisecond)

	// A broken edit keeps the last good config
	writeFile(t, path, "negotiation: [")
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 5, r.Current().Negotiation.TieMargin)
}
