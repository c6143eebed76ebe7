// Package sysinfo implements the §6 process-information and
// user/group-lookup capabilities the core consumes: start time, exe
// path and SELinux context of a pid, and name/id resolution. The
// production adapter reads /proc directly where permitted and falls
// back to the resolve-exe-1 helper for cross-uid subjects; platform
// differences live entirely behind this package, never as conditional
// compilation in the core.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ubuntu/authorityd/internal/authzerr"
	"github.com/ubuntu/authorityd/internal/helper"
	"github.com/ubuntu/authorityd/internal/i18n"
)

// ProcessInfo is the §6 process-information capability.
type ProcessInfo interface {
	StartTime(ctx context.Context, pid int32) (uint64, error)
	ExePath(ctx context.Context, pid int32) (string, bool)
	SELinuxContext(ctx context.Context, pid int32) (string, bool)
}

// Lookup is the §6 user/group lookup capability (also satisfies
// internal/identity.Lookup).
type Lookup interface {
	UIDByName(name string) (uint32, error)
	NameByUID(uid uint32) (string, error)
	GIDByName(name string) (uint32, error)
	NameByGID(gid uint32) (string, error)
}

// ProcAdapter is the production ProcessInfo, reading /proc/<pid>/...
// under root (normally "/", overridable for tests).
type ProcAdapter struct {
	Root           string
	ResolveExePath string // path to the resolve-exe-1 helper (§6)
}

// StartTime determines the start time from /proc/<pid>/stat, matching
// the same field-19-after-last-')' parsing polkit itself uses.
func (p ProcAdapter) StartTime(ctx context.Context, pid int32) (uint64, error) {
	root := p.Root
	if root == "" {
		root = "/"
	}
	f, err := os.Open(filepath.Join(root, fmt.Sprintf("proc/%d/stat", pid)))
	if err != nil {
		return 0, authzerr.General(i18n.G("couldn't open stat file for process"), err)
	}
	defer f.Close()

	startTime, err := startTimeFromReader(f)
	if err != nil {
		return 0, authzerr.General(i18n.G("couldn't determine start time of process"), err)
	}
	return startTime, nil
}

// startTimeFromReader determines the start time from a process stat
// file content.
//
// Start time is the token at index 19 after the "(process name)"
// entry — since only this field can contain the ')' character, search
// backwards for this to avoid malicious processes trying to fool us.
// See proc(5) for the /proc/[pid]/stat format.
func startTimeFromReader(r io.Reader) (uint64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	contents := string(data)

	idx := strings.LastIndexByte(contents, ')')
	if idx < 0 {
		return 0, errors.New(i18n.G("parsing error: missing )"))
	}
	idx += 2 // skip ") "
	if idx > len(contents) {
		return 0, errors.New(i18n.G("parsing error: ) at the end"))
	}
	tokens := strings.Split(contents[idx:], " ")
	if len(tokens) < 20 {
		return 0, errors.New(i18n.G("parsing error: less fields than required"))
	}
	v, err := strconv.ParseUint(tokens[19], 10, 64)
	if err != nil {
		return 0, fmt.Errorf(i18n.G("parsing error: %w"), err)
	}
	return v, nil
}

// ExePath resolves the caller's executable path, trying a direct
// /proc read first and falling back to the resolve-exe-1 helper for
// cross-uid subjects. A resolution failure is reported as "not
// resolved", never an error: constraint matching treats it as "does
// not match".
func (p ProcAdapter) ExePath(ctx context.Context, pid int32) (string, bool) {
	root := p.Root
	if root == "" {
		root = "/"
	}
	if path, err := os.Readlink(filepath.Join(root, fmt.Sprintf("proc/%d/exe", pid))); err == nil {
		return path, true
	}

	if p.ResolveExePath == "" {
		return "", false
	}
	res, err := helper.SpawnSync(ctx, []string{p.ResolveExePath, strconv.Itoa(int(pid))})
	if err != nil || res.ExitCode != 0 {
		return "", false
	}
	path := strings.TrimRight(string(res.Stdout), "\n")
	if path == "" {
		return "", false
	}
	return path, true
}

// SELinuxContext reads /proc/<pid>/attr/current. Systems without the
// facility (file absent) report "no context", which constraint
// matching treats as a trivial match.
func (p ProcAdapter) SELinuxContext(ctx context.Context, pid int32) (string, bool) {
	root := p.Root
	if root == "" {
		root = "/"
	}
	data, err := os.ReadFile(filepath.Join(root, fmt.Sprintf("proc/%d/attr/current", pid)))
	if err != nil {
		return "", false
	}
	secCtx := strings.TrimRight(string(data), "\x00\n")
	if secCtx == "" {
		return "", false
	}
	return secCtx, true
}

// OSLookup is the production Lookup, backed by os/user.
type OSLookup struct{}

// UIDByName implements Lookup.
func (OSLookup) UIDByName(name string) (uint32, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, err
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(uid), nil
}

// NameByUID implements Lookup.
func (OSLookup) NameByUID(uid uint32) (string, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// GIDByName implements Lookup.
func (OSLookup) GIDByName(name string) (uint32, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	gid, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(gid), nil
}

// NameByGID implements Lookup.
func (OSLookup) NameByGID(gid uint32) (string, error) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}
