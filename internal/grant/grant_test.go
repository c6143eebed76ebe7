package grant_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/grant"
)

// writeMockHelper writes an executable shell script standing in for
// grant-1, and returns its path.
func writeMockHelper(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "grant-1")
	full := "#!/bin/sh\n" + script
	require.NoError(t, os.WriteFile(path, []byte(full), 0755))
	return path
}

// TestGrantSuccessPath is the literal §8 scenario 5: tell_type, a
// password prompt, one stdin reply, a text_info, then exit 0.
func TestGrantSuccessPath(t *testing.T) {
	t.Parallel()

	helperPath := writeMockHelper(t, `
echo "POLKIT_GRANT_HELPER_TELL_TYPE auth_self_keep"
echo "PAM_PROMPT_ECHO_OFF Password: "
read line
echo "PAM_TEXT_INFO ok"
exit 0
`)

	var mu sync.Mutex
	var gotType, gotPrompt, gotInfo string
	var doneSuccess, doneBogus bool
	done := make(chan struct{})

	o := grant.New(helperPath, grant.Callbacks{
		OnType: func(kind string) {
			mu.Lock()
			gotType = kind
			mu.Unlock()
		},
		OnPromptEchoOff: func(prompt string) string {
			mu.Lock()
			gotPrompt = prompt
			mu.Unlock()
			return "hunter2"
		},
		OnTextInfo: func(text string) {
			mu.Lock()
			gotInfo = text
			mu.Unlock()
		},
		OnDone: func(success, bogus bool) {
			mu.Lock()
			doneSuccess, doneBogus = success, bogus
			mu.Unlock()
			close(done)
		},
	})

	act, err := action.Parse("org.example.frob")
	require.NoError(t, err)
	require.NoError(t, o.Initiate(context.Background(), 1234, act))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for on_done")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "auth_self_keep", gotType)
	require.Equal(t, "Password: ", gotPrompt)
	require.Equal(t, "ok", gotInfo)
	require.True(t, doneSuccess)
	require.False(t, doneBogus)
}

// TestGrantBadInput is the literal §8 scenario 6: the helper exits
// with code 2 immediately.
func TestGrantBadInput(t *testing.T) {
	t.Parallel()

	helperPath := writeMockHelper(t, "exit 2\n")

	var mu sync.Mutex
	var doneSuccess, doneBogus bool
	calls := 0
	done := make(chan struct{})

	o := grant.New(helperPath, grant.Callbacks{
		OnDone: func(success, bogus bool) {
			mu.Lock()
			doneSuccess, doneBogus = success, bogus
			calls++
			mu.Unlock()
			close(done)
		},
	})

	act, err := action.Parse("org.example.frob")
	require.NoError(t, err)
	require.NoError(t, o.Initiate(context.Background(), 1234, act))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for on_done")
	}

	mu.Lock()
	defer mu.Unlock()
	require.False(t, doneSuccess)
	require.True(t, doneBogus)
	require.Equal(t, 1, calls)
}

// TestGrantCancelIsIdempotent exercises a long-running helper and
// verifies Cancel transitions to idle and calls on_done(false, false)
// exactly once, and a second Cancel is a no-op.
func TestGrantCancelIsIdempotent(t *testing.T) {
	t.Parallel()

	helperPath := writeMockHelper(t, `
trap 'exit 143' TERM
sleep 30
`)

	calls := 0
	var mu sync.Mutex
	done := make(chan struct{})
	var doneSuccess, doneBogus bool

	o := grant.New(helperPath, grant.Callbacks{
		OnDone: func(success, bogus bool) {
			mu.Lock()
			doneSuccess, doneBogus = success, bogus
			calls++
			mu.Unlock()
			close(done)
		},
	})

	act, err := action.Parse("org.example.frob")
	require.NoError(t, err)
	require.NoError(t, o.Initiate(context.Background(), 1234, act))
	require.Equal(t, grant.StateRunning, o.State())

	require.NoError(t, o.Cancel())
	<-done
	require.NoError(t, o.Cancel())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
	require.False(t, doneSuccess)
	require.False(t, doneBogus)
	require.Equal(t, grant.StateIdle, o.State())
}
