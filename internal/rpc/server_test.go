package rpc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/authdb"
	"github.com/ubuntu/authorityd/internal/catalog"
	"github.com/ubuntu/authorityd/internal/decision"
	"github.com/ubuntu/authorityd/internal/rpc"
)

const fixture = `
actions:
  - action_id: org.example.always
    implicit_any: yes
  - action_id: org.example.never
    implicit_any: no
  - action_id: org.example.admin
    implicit_any: auth_admin
`

func emptyReadHelper(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "read")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func newServer(t *testing.T) *rpc.Server {
	t.Helper()
	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: emptyReadHelper(t)})
	cat, err := catalog.Parse([]byte(fixture))
	require.NoError(t, err)
	return &rpc.Server{Engine: decision.New(db), DB: db, Catalog: cat}
}

func TestCheckAuthorizationImplicitYes(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	resp, err := s.CheckAuthorization(context.Background(), &rpc.CheckAuthorizationRequest{
		ActionID: "org.example.always",
		Subject:  "unix-process:1:2",
	})
	require.NoError(t, err)
	require.True(t, resp.IsAuthorized)
}

func TestCheckAuthorizationImplicitNo(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	resp, err := s.CheckAuthorization(context.Background(), &rpc.CheckAuthorizationRequest{
		ActionID: "org.example.never",
		Subject:  "unix-process:1:2",
	})
	require.NoError(t, err)
	require.False(t, resp.IsAuthorized)
}

func TestCheckAuthorizationRequiresInteractive(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	resp, err := s.CheckAuthorization(context.Background(), &rpc.CheckAuthorizationRequest{
		ActionID: "org.example.admin",
		Subject:  "unix-process:1:2",
	})
	require.NoError(t, err)
	require.False(t, resp.IsAuthorized)
	require.False(t, resp.IsChallenge)
	require.True(t, resp.Dismissed)

	resp, err = s.CheckAuthorization(context.Background(), &rpc.CheckAuthorizationRequest{
		ActionID:         "org.example.admin",
		Subject:          "unix-process:1:2",
		AllowInteractive: true,
	})
	require.NoError(t, err)
	require.False(t, resp.IsAuthorized)
	require.True(t, resp.IsChallenge)
}

func TestEnumerateActions(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	resp, err := s.EnumerateActions(context.Background(), &rpc.EnumerateActionsRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{"org.example.admin", "org.example.always", "org.example.never"}, resp.ActionIDs)
}
