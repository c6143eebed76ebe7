package sysinfo_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ubuntu/authorityd/internal/sysinfo"
)

func writeFakeStat(t *testing.T, root string, pid int, statLine string) {
	t.Helper()
	dir := filepath.Join(root, "proc", fmt.Sprintf("%d", pid))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(statLine), 0644))
}

func TestStartTime(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	// pid comm (state) ppid pgrp session tty_nr tpgid flags minflt cminflt
	// majflt cmajflt utime stime cutime cstime priority nice num_threads
	// itrealvalue starttime ...
	statLine := "14485 (frobnicate) S 1 14485 14485 0 -1 4194560 100 0 0 0 0 0 0 0 20 0 1 0 26817340 0 0"
	writeFakeStat(t, root, 14485, statLine)

	p := sysinfo.ProcAdapter{Root: root}
	st, err := p.StartTime(context.Background(), 14485)
	require.NoError(t, err)
	require.Equal(t, uint64(26817340), st)
}

func TestStartTimeMissingFields(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFakeStat(t, root, 1, "1 (init) S 0")

	p := sysinfo.ProcAdapter{Root: root}
	_, err := p.StartTime(context.Background(), 1)
	require.Error(t, err)
}

func TestSELinuxContextAbsent(t *testing.T) {
	t.Parallel()

	p := sysinfo.ProcAdapter{Root: t.TempDir()}
	_, ok := p.SELinuxContext(context.Background(), 1)
	require.False(t, ok)
}
