package constraint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/constraint"
	"github.com/ubuntu/authorityd/internal/session"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []constraint.Constraint{
		constraint.Local,
		constraint.Active,
		constraint.RequireExe("/usr/bin/frobnicate"),
		constraint.RequireSELinuxContext("system_u:system_r:frob_t"),
	}
	for _, c := range tests {
		got, err := constraint.Parse(c.String())
		require.NoError(t, err)
		assert.True(t, c.Equal(got))
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	_, err := constraint.Parse("bogus")
	require.Error(t, err)
}

func TestMatchesLocalActive(t *testing.T) {
	t.Parallel()

	localActive := constraint.Caller{HasSession: true, Session: session.Session{IsLocal: true, IsActive: true}}
	remoteInactive := constraint.Caller{HasSession: true, Session: session.Session{IsLocal: false, IsActive: false}}
	noSession := constraint.Caller{}

	assert.True(t, constraint.Local.Matches(context.Background(), localActive))
	assert.True(t, constraint.Active.Matches(context.Background(), localActive))
	assert.False(t, constraint.Local.Matches(context.Background(), remoteInactive))
	assert.False(t, constraint.Active.Matches(context.Background(), remoteInactive))
	assert.False(t, constraint.Local.Matches(context.Background(), noSession))
}

func TestMatchesExe(t *testing.T) {
	t.Parallel()

	c := constraint.RequireExe("/usr/bin/frob")

	matching := constraint.Caller{ResolveExePath: func(context.Context) (string, bool) { return "/usr/bin/frob", true }}
	other := constraint.Caller{ResolveExePath: func(context.Context) (string, bool) { return "/usr/bin/other", true }}
	unresolvable := constraint.Caller{ResolveExePath: func(context.Context) (string, bool) { return "", false }}

	assert.True(t, c.Matches(context.Background(), matching))
	assert.False(t, c.Matches(context.Background(), other))
	assert.False(t, c.Matches(context.Background(), unresolvable))
}

func TestMatchesSELinuxContextTrivialWithoutFacility(t *testing.T) {
	t.Parallel()

	c := constraint.RequireSELinuxContext("system_u:system_r:frob_t")
	noFacility := constraint.Caller{}
	assert.True(t, c.Matches(context.Background(), noFacility))

	mismatched := constraint.Caller{SELinuxContext: func(context.Context) (string, bool) { return "other_t", true }}
	assert.False(t, c.Matches(context.Background(), mismatched))

	matched := constraint.Caller{SELinuxContext: func(context.Context) (string, bool) { return "system_u:system_r:frob_t", true }}
	assert.True(t, c.Matches(context.Background(), matched))
}

func TestMostRestrictiveFor(t *testing.T) {
	t.Parallel()

	caller := constraint.Caller{
		HasSession:     true,
		Session:        session.Session{IsLocal: true, IsActive: true},
		ResolveExePath: func(context.Context) (string, bool) { return "/usr/bin/frob", true },
	}
	got := constraint.MostRestrictiveFor(context.Background(), caller)
	require.Len(t, got, 3)
	assert.Contains(t, got, constraint.Local)
	assert.Contains(t, got, constraint.Active)
	assert.Contains(t, got, constraint.RequireExe("/usr/bin/frob"))
}
