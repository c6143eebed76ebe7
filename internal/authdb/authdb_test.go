package authdb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/authdb"
	"github.com/ubuntu/authorityd/internal/authzerr"
	"github.com/ubuntu/authorityd/internal/record"
)

// writeMockHelper writes script as an executable shell script, standing
// in for read-authorizations-1 / revoke-authorization-1.
func writeMockHelper(t *testing.T, name, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestLoadForUIDCachesAndInvalidates(t *testing.T) {
	t.Parallel()

	calls := filepath.Join(t.TempDir(), "calls")
	readHelper := writeMockHelper(t, "read-authorizations-1", `
echo "$(cat `+calls+` 2>/dev/null)x" > `+calls+`
echo "scope=grant:action-id=org.freedesktop.policykit.read:when=1194634242:granted-by=0"
`)

	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: readHelper})

	recs, err := db.LoadForUID(context.Background(), 50401)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Second call should be served from cache: the helper script
	// appends to `calls` each time it actually runs.
	_, err = db.LoadForUID(context.Background(), 50401)
	require.NoError(t, err)
	data, _ := os.ReadFile(calls)
	require.Equal(t, "x\n", string(data))

	db.Invalidate()
	_, err = db.LoadForUID(context.Background(), 50401)
	require.NoError(t, err)
	data, _ = os.ReadFile(calls)
	require.Equal(t, "xx\n", string(data))
}

func TestRevokeInvalidatesCache(t *testing.T) {
	t.Parallel()

	readHelper := writeMockHelper(t, "read-authorizations-1", `echo "scope=grant:action-id=org.example.frob:when=1:granted-by=0"`)
	revokeHelper := writeMockHelper(t, "revoke-authorization-1", `exit 0`)

	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: readHelper, RevokeAuthorization: revokeHelper})

	recs, err := db.LoadForUID(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, db.Revoke(context.Background(), recs[0]))

	// Reload must hit the helper again (cache was dropped).
	recs2, err := db.LoadForUID(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, recs2, 1)
}

func TestRevokeNonZeroExitIsNotAuthorized(t *testing.T) {
	t.Parallel()

	readHelper := writeMockHelper(t, "read-authorizations-1", `echo "scope=grant:action-id=org.example.frob:when=1:granted-by=0"`)
	revokeHelper := writeMockHelper(t, "revoke-authorization-1", `exit 1`)

	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: readHelper, RevokeAuthorization: revokeHelper})
	recs, err := db.LoadForUID(context.Background(), 1000)
	require.NoError(t, err)

	err = db.Revoke(context.Background(), recs[0])
	require.ErrorIs(t, err, authzerr.NotAuthorizedToRevoke)
}

func TestIsUIDBlockedBySelf(t *testing.T) {
	t.Parallel()

	readHelper := writeMockHelper(t, "read-authorizations-1", `
echo "scope=grant-negative:action-id=org.example.frob:when=1:granted-by=1000"
`)
	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: readHelper})

	a, err := action.Parse("org.example.frob")
	require.NoError(t, err)

	blocked, err := db.IsUIDBlockedBySelf(context.Background(), a, 1000)
	require.NoError(t, err)
	require.True(t, blocked)
}

func TestIsUIDBlockedBySelfFalseWhenOtherUIDNegated(t *testing.T) {
	t.Parallel()

	readHelper := writeMockHelper(t, "read-authorizations-1", `
echo "scope=grant-negative:action-id=org.example.frob:when=1:granted-by=2000"
`)
	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: readHelper})

	a, err := action.Parse("org.example.frob")
	require.NoError(t, err)

	blocked, err := db.IsUIDBlockedBySelf(context.Background(), a, 1000)
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestForeachRequiresEnumeratePrivilegeWithoutUID(t *testing.T) {
	t.Parallel()

	db := authdb.New(authdb.HelperPaths{ReadAuthorizations: "/nonexistent"})
	err := db.Foreach(context.Background(), nil, 0, false, func(r record.Record) error { return nil })
	require.Error(t, err)
}
