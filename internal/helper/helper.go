// Package helper wraps privileged helper invocation behind two
// primitives: SpawnSync for the read/revoke/resolve-exe helpers (which
// run to completion and hand back stdout) and SpawnWithPipes for the
// grant helper (which the caller drives interactively). This replaces
// the fork+exec scattered throughout the original source with one
// place that maps exit codes and signals to the §7 error kinds.
package helper

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"

	"github.com/ubuntu/authorityd/internal/authzerr"
	"github.com/ubuntu/authorityd/internal/i18n"
	"golang.org/x/sys/unix"
)

// Result is the outcome of a completed SpawnSync invocation.
type Result struct {
	Stdout   []byte
	ExitCode int
}

// SpawnSync runs argv[0] with argv[1:], waits for completion, and
// returns its stdout. Exit-code mapping follows §4.3's table: 0 is
// success; a non-zero WEXITSTATUS is returned as ExitCode for the
// caller to map to a helper-specific error; a helper killed by signal
// maps to HelperCrashed; any other spawn failure maps to GeneralError.
func SpawnSync(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, authzerr.General(i18n.G("empty helper argv"), nil)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err == nil {
		return Result{Stdout: stdout.Bytes(), ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		if exitErr.ProcessState != nil {
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				return Result{}, authzerr.HelperCrashed(argv[0])
			}
		}
		return Result{Stdout: stdout.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	}

	return Result{}, authzerr.General(i18n.G("couldn't spawn helper"), err)
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

// Piped is a started grant-helper process: its pid, stdin and stdout
// pipes are owned by the caller, who must eventually Wait it.
type Piped struct {
	cmd    *exec.Cmd
	Stdin  WriteCloser
	Stdout ReadCloser
	PID    int
}

// WriteCloser and ReadCloser alias io's interfaces to avoid a direct
// io import at this call site list; kept distinct for readability at
// call sites in internal/grant.
type WriteCloser interface {
	Write(p []byte) (int, error)
	Close() error
}

// ReadCloser is the read side of a helper's stdout pipe.
type ReadCloser interface {
	Read(p []byte) (int, error)
	Close() error
}

// SpawnWithPipes starts argv[0] with argv[1:], capturing stdin/stdout
// as pipes; the child is not auto-reaped — the caller must call Wait.
func SpawnWithPipes(argv []string) (*Piped, error) {
	if len(argv) == 0 {
		return nil, authzerr.General(i18n.G("empty helper argv"), nil)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, authzerr.General(i18n.G("couldn't open helper stdin"), err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, authzerr.General(i18n.G("couldn't open helper stdout"), err)
	}
	if err := cmd.Start(); err != nil {
		return nil, authzerr.General(i18n.G("couldn't start helper"), err)
	}

	return &Piped{cmd: cmd, Stdin: stdin, Stdout: stdout, PID: cmd.Process.Pid}, nil
}

// Signal sends sig to the helper process.
func (p *Piped) Signal(sig syscall.Signal) error {
	return unix.Kill(p.PID, sig)
}

// Wait reaps the helper and returns its exit code; crashed is true
// (with a HelperCrashed error) when the helper was killed by a signal.
func (p *Piped) Wait() (code int, crashed bool, err error) {
	waitErr := p.cmd.Wait()
	if waitErr == nil {
		return 0, false, nil
	}
	var exitErr *exec.ExitError
	if ok := asExitError(waitErr, &exitErr); ok {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 0, true, authzerr.HelperCrashed("grant-1")
		}
		return exitErr.ExitCode(), false, nil
	}
	return 0, false, authzerr.General(i18n.G("couldn't wait for helper"), waitErr)
}
