package record_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/constraint"
	"github.com/ubuntu/authorityd/internal/record"
)

func TestDecodeGrant(t *testing.T) {
	t.Parallel()

	line := "scope=grant:action-id=org.freedesktop.policykit.read:when=1194634242:granted-by=0\n"
	r, err := record.Decode(line, 50401)
	require.NoError(t, err)

	assert.Equal(t, record.ScopeAlways, r.Scope)
	assert.Equal(t, record.ProvenanceExplicit, r.Provenance)
	assert.False(t, r.IsNegative)
	assert.Equal(t, "org.freedesktop.policykit.read", r.ActionID.String())
	assert.Equal(t, int64(1194634242), r.WhenGranted)
	assert.Equal(t, uint32(0), r.GrantedBy)
	assert.Equal(t, uint32(50401), r.UID)
	assert.Equal(t, line, r.Raw)
}

func TestDecodeGrantNegative(t *testing.T) {
	t.Parallel()

	line := "scope=grant-negative:action-id=org.example.frob:when=1:granted-by=50402"
	r, err := record.Decode(line, 50403)
	require.NoError(t, err)
	assert.True(t, r.IsNegative)
	assert.Equal(t, record.ProvenanceExplicit, r.Provenance)
}

func TestDecodeProcessScope(t *testing.T) {
	t.Parallel()

	line := "scope=process:pid=14485:pid-start-time=26817340:action-id=org.example.frob:when=1194631763:auth-as=500"
	r, err := record.Decode(line, 50403)
	require.NoError(t, err)

	assert.Equal(t, record.ScopeProcess, r.Scope)
	assert.Equal(t, int32(14485), r.PID)
	assert.Equal(t, uint64(26817340), r.PIDStartTime)
	assert.Equal(t, record.ProvenanceDefaults, r.Provenance)
	assert.Equal(t, uint32(500), r.AuthenticatedAs)
}

func TestDecodeSessionScope(t *testing.T) {
	t.Parallel()

	line := "scope=session:session-id=%2FSession1:action-id=org.example.punch:when=1:auth-as=500"
	r, err := record.Decode(line, 50403)
	require.NoError(t, err)
	assert.Equal(t, record.ScopeSession, r.Scope)
	assert.Equal(t, "%2FSession1", r.SessionID)
}

func TestDecodeWithConstraints(t *testing.T) {
	t.Parallel()

	line := "scope=always:action-id=org.example.frob:when=1:auth-as=0:constraint=local:constraint=exe:/usr/bin/frob"
	r, err := record.Decode(line, 1)
	require.NoError(t, err)
	require.Len(t, r.Constraints, 2)
	assert.True(t, r.Constraints[0].Equal(constraint.Local))
	assert.True(t, r.Constraints[1].Equal(constraint.RequireExe("/usr/bin/frob")))
}

func TestDecodeUnknownKeyForwardCompat(t *testing.T) {
	t.Parallel()

	withExtra := "scope=always:future-key=something:action-id=org.example.frob:when=1:auth-as=0"
	without := "scope=always:action-id=org.example.frob:when=1:auth-as=0"

	r1, err := record.Decode(withExtra, 1)
	require.NoError(t, err)
	r2, err := record.Decode(without, 1)
	require.NoError(t, err)

	r1.Raw = ""
	r2.Raw = ""
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Fatalf("unknown key changed decoding of known fields (-with-extra +without):\n%s", diff)
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"missing scope":            "action-id=org.example.frob:when=1:auth-as=0",
		"unknown scope":            "scope=bogus:action-id=org.example.frob:when=1:auth-as=0",
		"missing required key":     "scope=always:action-id=org.example.frob:when=1",
		"duplicate required key":   "scope=always:action-id=org.example.frob:action-id=org.example.jump:when=1:auth-as=0",
		"invalid action id":        "scope=always:action-id=Org.Example.Frob:when=1:auth-as=0",
		"trailing garbage in int":  "scope=always:action-id=org.example.frob:when=1abc:auth-as=0",
		"scope not first":          "action-id=org.example.frob:scope=always:when=1:auth-as=0",
		"no equals in token":       "scope=always:action-id org.example.frob:when=1:auth-as=0",
	}
	for name, line := range tests {
		line := line
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := record.Decode(line, 1)
			require.Error(t, err)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	r, err := record.Decode("scope=process:pid=1:pid-start-time=2:action-id=org.example.frob:when=3:auth-as=4", 5)
	require.NoError(t, err)

	encoded := r.Encode()
	r2, err := record.Decode(encoded, r.UID)
	require.NoError(t, err)

	assert.Equal(t, r.Scope, r2.Scope)
	assert.Equal(t, r.ActionID, r2.ActionID)
	assert.Equal(t, r.PID, r2.PID)
	assert.Equal(t, r.PIDStartTime, r2.PIDStartTime)
	assert.Equal(t, r.WhenGranted, r2.WhenGranted)
	assert.Equal(t, r.AuthenticatedAs, r2.AuthenticatedAs)
}

func TestDecodeStreamWithUIDHeaders(t *testing.T) {
	t.Parallel()

	stream := "" +
		"#uid=100\n" +
		"scope=always:action-id=org.example.a:when=1:auth-as=0\n" +
		"\n" +
		"# a comment\n" +
		"#uid=200\n" +
		"scope=always:action-id=org.example.b:when=2:auth-as=0\n" +
		"bogus-line-without-equals\n"

	var malformed []string
	records := record.DecodeStream(stream, 0, func(line string, err error) {
		malformed = append(malformed, line)
	})

	require.Len(t, records, 2)
	assert.Equal(t, uint32(100), records[0].UID)
	assert.Equal(t, uint32(200), records[1].UID)
	assert.Len(t, malformed, 1)
}
