package subject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/subject"
)

func TestUnixProcessRoundTrip(t *testing.T) {
	t.Parallel()

	s := subject.NewUnixProcess(14485, 26817340)
	assert.Equal(t, "unix-process:14485:26817340", s.String())

	got, err := subject.Parse(s.String())
	require.NoError(t, err)
	assert.True(t, s.Equal(got))
}

func TestVariantsRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []subject.Subject{
		subject.NewSystemBusName(":1.42"),
		subject.NewUnixSession("/Session1"),
		subject.NewAbstractUser("alice"),
	}
	for _, s := range tests {
		got, err := subject.Parse(s.String())
		require.NoError(t, err)
		assert.True(t, s.Equal(got), "%s vs %s", s, got)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "nocolonhere", "unix-process:abc:def", "unknown-kind:x"} {
		_, err := subject.Parse(s)
		require.Error(t, err)
	}
}

func TestEqualityComparesStartTime(t *testing.T) {
	t.Parallel()

	a := subject.NewUnixProcess(14485, 26817340)
	b := subject.NewUnixProcess(14485, 26817341)
	assert.False(t, a.Equal(b))
}
