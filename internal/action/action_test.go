package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/action"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		wantErr bool
	}{
		"simple action":         {in: "org.freedesktop.policykit.read"},
		"with digits and dash":  {in: "org.example.frob-2"},
		"single letter":         {in: "a"},
		"empty":                 {in: "", wantErr: true},
		"starts with uppercase": {in: "Org.example.frob", wantErr: true},
		"starts with digit":     {in: "1org.example", wantErr: true},
		"contains uppercase":    {in: "org.Example.frob", wantErr: true},
		"contains underscore":   {in: "org.example_frob", wantErr: true},
		"too long": {
			in:      "a" + string(make([]byte, 255)),
			wantErr: true,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := action.Parse(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.in, a.String())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"org.freedesktop.policykit.read",
		"com.ubuntu.authorityd.manage-service",
		"a.b.c-d.e1",
	} {
		a, err := action.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, a.String())
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a1, err := action.Parse("org.example.frob")
	require.NoError(t, err)
	a2, err := action.Parse("org.example.frob")
	require.NoError(t, err)
	a3, err := action.Parse("org.example.jump")
	require.NoError(t, err)

	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(a3))
}
