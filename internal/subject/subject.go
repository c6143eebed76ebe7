// Package subject implements the Subject value type: the party
// attempting an action (a process, a bus name, or a session).
package subject

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ubuntu/authorityd/internal/authzerr"
)

// Kind discriminates the Subject variants.
type Kind int

const (
	// KindUnixProcess identifies a (pid, start_time) pair, optionally a uid.
	KindUnixProcess Kind = iota
	// KindSystemBusName identifies a D-Bus unique name.
	KindSystemBusName
	// KindUnixSession identifies an opaque session id.
	KindUnixSession
	// KindAbstractUser identifies a subject only by name (testing/IPC convenience).
	KindAbstractUser
)

// Subject is an immutable, variant-tagged caller identity.
type Subject struct {
	kind Kind

	pid       int32
	startTime uint64
	hasUID    bool
	uid       uint32

	busName   string
	sessionID string
	name      string
}

// NewUnixProcess builds a process-backed subject. For unix-process the
// pair (pid, start_time) is the stable identifier.
func NewUnixProcess(pid int32, startTime uint64) Subject {
	return Subject{kind: KindUnixProcess, pid: pid, startTime: startTime}
}

// NewUnixProcessWithUID builds a process-backed subject carrying a known uid.
func NewUnixProcessWithUID(pid int32, startTime uint64, uid uint32) Subject {
	return Subject{kind: KindUnixProcess, pid: pid, startTime: startTime, hasUID: true, uid: uid}
}

// NewSystemBusName builds a subject identified by its D-Bus unique name.
func NewSystemBusName(name string) Subject {
	return Subject{kind: KindSystemBusName, busName: name}
}

// NewUnixSession builds a subject identified by a session id.
func NewUnixSession(sessionID string) Subject {
	return Subject{kind: KindUnixSession, sessionID: sessionID}
}

// NewAbstractUser builds a subject identified only by a name.
func NewAbstractUser(name string) Subject {
	return Subject{kind: KindAbstractUser, name: name}
}

// Kind returns the subject's variant.
func (s Subject) Kind() Kind { return s.kind }

// PID returns the process id; valid only when Kind() == KindUnixProcess.
func (s Subject) PID() int32 { return s.pid }

// StartTime returns the process start tick; valid only for KindUnixProcess.
func (s Subject) StartTime() uint64 { return s.startTime }

// UID returns the carried uid and whether one was set; valid for KindUnixProcess.
func (s Subject) UID() (uint32, bool) { return s.uid, s.hasUID }

// BusName returns the bus unique name; valid only for KindSystemBusName.
func (s Subject) BusName() string { return s.busName }

// SessionID returns the session id; valid only for KindUnixSession.
func (s Subject) SessionID() string { return s.sessionID }

// Name returns the abstract user name; valid only for KindAbstractUser.
func (s Subject) Name() string { return s.name }

// Equal reports whether s and other denote the same subject.
func (s Subject) Equal(other Subject) bool {
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case KindUnixProcess:
		return s.pid == other.pid && s.startTime == other.startTime
	case KindSystemBusName:
		return s.busName == other.busName
	case KindUnixSession:
		return s.sessionID == other.sessionID
	case KindAbstractUser:
		return s.name == other.name
	default:
		return false
	}
}

// String formats the variant-tagged text form of §3/§4.1.
func (s Subject) String() string {
	switch s.kind {
	case KindUnixProcess:
		return fmt.Sprintf("unix-process:%d:%d", s.pid, s.startTime)
	case KindSystemBusName:
		return fmt.Sprintf("system-bus-name:%s", s.busName)
	case KindUnixSession:
		return fmt.Sprintf("unix-session:%s", s.sessionID)
	case KindAbstractUser:
		return fmt.Sprintf("abstract-user:%s", s.name)
	default:
		return ""
	}
}

// Parse parses the variant-tagged text form.
func Parse(text string) (Subject, error) {
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return Subject{}, authzerr.MalformedID(text)
	}
	kind, rest := text[:idx], text[idx+1:]

	switch kind {
	case "unix-process":
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			return Subject{}, authzerr.MalformedID(text)
		}
		pid, err := strconv.ParseInt(parts[0], 10, 32)
		if err != nil {
			return Subject{}, authzerr.MalformedID(text)
		}
		startTime, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return Subject{}, authzerr.MalformedID(text)
		}
		return NewUnixProcess(int32(pid), startTime), nil
	case "system-bus-name":
		return NewSystemBusName(rest), nil
	case "unix-session":
		return NewUnixSession(rest), nil
	case "abstract-user":
		return NewAbstractUser(rest), nil
	default:
		return Subject{}, authzerr.MalformedID(text)
	}
}
