package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/daemon"
	"github.com/ubuntu/authorityd/internal/testutils"
)

func newTestConfig(t *testing.T) config.Config {
	t.Helper()

	dir, cleanup := testutils.TempDir(t)
	t.Cleanup(cleanup)

	readHelper := filepath.Join(dir, "read")
	require.NoError(t, os.WriteFile(readHelper, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	revokeHelper := filepath.Join(dir, "revoke")
	require.NoError(t, os.WriteFile(revokeHelper, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	catalogPath := filepath.Join(dir, "actions.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("actions: []\n"), 0o644))

	cfg := config.Default()
	cfg.Socket = filepath.Join(dir, "authority.sock")
	cfg.CatalogPath = catalogPath
	cfg.Helpers.ReadAuthorizations = readHelper
	cfg.Helpers.RevokeAuthorization = revokeHelper
	return cfg
}

func TestNewAndStop(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	s, err := daemon.New(context.Background(), cfg.Socket, cfg, daemon.IdleTimeout(time.Minute))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Listen() }()

	s.Stop()
	require.NoError(t, <-done)
}

func TestTrackRequestDelaysIdleTimeout(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	s, err := daemon.New(context.Background(), cfg.Socket, cfg, daemon.IdleTimeout(50*time.Millisecond))
	require.NoError(t, err)

	reset := s.TrackRequest()
	go func() { s.Listen() }()

	time.Sleep(100 * time.Millisecond)
	reset()

	s.Stop()
}
