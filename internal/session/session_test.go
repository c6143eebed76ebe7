package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/session"
)

func TestParseSeat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		id      string
		wantErr bool
	}{
		"simple":         {id: "seat0"},
		"with slashes":   {id: "/org/freedesktop/login1/seat/seat0"},
		"empty":          {id: "", wantErr: true},
		"invalid char":   {id: "seat 0", wantErr: true},
		"too long":       {id: string(make([]byte, 256)), wantErr: true},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s, err := session.ParseSeat(tc.id)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, s.ID())
		})
	}
}

func TestIsLocalInvariant(t *testing.T) {
	t.Parallel()

	local := session.Session{IsLocal: true}
	remote := session.Session{IsLocal: false, RemoteHost: "1.2.3.4"}

	assert.Empty(t, local.RemoteHost)
	assert.NotEmpty(t, remote.RemoteHost)
}
