// Package identity implements the Identity value type: whom an
// authorization record is attached to (a unix user, group or netgroup).
package identity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ubuntu/authorityd/internal/authzerr"
)

// Kind discriminates the Identity variants.
type Kind int

const (
	// KindUnixUser identifies a single uid.
	KindUnixUser Kind = iota
	// KindUnixGroup identifies a gid.
	KindUnixGroup
	// KindUnixNetgroup identifies a netgroup name.
	KindUnixNetgroup
)

func (k Kind) prefix() string {
	switch k {
	case KindUnixUser:
		return "unix-user"
	case KindUnixGroup:
		return "unix-group"
	case KindUnixNetgroup:
		return "unix-netgroup"
	default:
		return "unknown"
	}
}

// Lookup resolves symbolic names to numeric ids and back. Production
// code wires this to os/user; tests provide a fake.
type Lookup interface {
	UIDByName(name string) (uint32, error)
	NameByUID(uid uint32) (string, error)
	GIDByName(name string) (uint32, error)
	NameByGID(gid uint32) (string, error)
}

// Identity is a validated, immutable identity value. symbolic, when
// non-empty, is the name to prefer in String() (set when the identity
// was parsed from, or resolved to, a symbolic name).
type Identity struct {
	kind     Kind
	numeric  uint32 // uid or gid, meaningless for netgroup
	symbolic string // preferred display name for unix-user/unix-group
	name     string // netgroup name
}

// NewUnixUser builds an Identity directly from a uid, without a lookup.
func NewUnixUser(uid uint32) Identity { return Identity{kind: KindUnixUser, numeric: uid} }

// NewUnixGroup builds an Identity directly from a gid, without a lookup.
func NewUnixGroup(gid uint32) Identity { return Identity{kind: KindUnixGroup, numeric: gid} }

// NewUnixNetgroup builds an Identity from a netgroup name.
func NewUnixNetgroup(name string) Identity { return Identity{kind: KindUnixNetgroup, name: name} }

// Kind returns the identity's variant.
func (id Identity) Kind() Kind { return id.kind }

// UID returns the numeric uid; valid only when Kind() == KindUnixUser.
func (id Identity) UID() uint32 { return id.numeric }

// GID returns the numeric gid; valid only when Kind() == KindUnixGroup.
func (id Identity) GID() uint32 { return id.numeric }

// Name returns the netgroup name; valid only when Kind() == KindUnixNetgroup.
func (id Identity) Name() string { return id.name }

// Equal reports whether id and other denote the same identity (tag + payload).
func (id Identity) Equal(other Identity) bool {
	if id.kind != other.kind {
		return false
	}
	switch id.kind {
	case KindUnixUser, KindUnixGroup:
		return id.numeric == other.numeric
	case KindUnixNetgroup:
		return id.name == other.name
	default:
		return false
	}
}

// Parse parses the "kind:payload" text form. Integer payloads are
// accepted directly for unix-user and unix-group (base-10); symbolic
// names are resolved via lookup, and a resolution failure yields
// LookupFailed carrying the original string.
func Parse(s string, lookup Lookup) (Identity, error) {
	kind, payload, err := splitKindPayload(s)
	if err != nil {
		return Identity{}, err
	}

	switch kind {
	case "unix-user":
		if uid, ok := parseUint32(payload); ok {
			return Identity{kind: KindUnixUser, numeric: uid}, nil
		}
		if lookup == nil {
			return Identity{}, authzerr.LookupFailed(s, nil)
		}
		uid, err := lookup.UIDByName(payload)
		if err != nil {
			return Identity{}, authzerr.LookupFailed(s, err)
		}
		return Identity{kind: KindUnixUser, numeric: uid, symbolic: payload}, nil
	case "unix-group":
		if gid, ok := parseUint32(payload); ok {
			return Identity{kind: KindUnixGroup, numeric: gid}, nil
		}
		if lookup == nil {
			return Identity{}, authzerr.LookupFailed(s, nil)
		}
		gid, err := lookup.GIDByName(payload)
		if err != nil {
			return Identity{}, authzerr.LookupFailed(s, err)
		}
		return Identity{kind: KindUnixGroup, numeric: gid, symbolic: payload}, nil
	case "unix-netgroup":
		return Identity{kind: KindUnixNetgroup, name: payload}, nil
	default:
		return Identity{}, authzerr.MalformedID(s)
	}
}

func splitKindPayload(s string) (kind, payload string, err error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", "", authzerr.MalformedID(s)
	}
	return s[:idx], s[idx+1:], nil
}

func parseUint32(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// String formats the "kind:payload" text form, using the symbolic
// name when one was resolved at parse time, else the numeric form.
func (id Identity) String() string {
	switch id.kind {
	case KindUnixUser, KindUnixGroup:
		if id.symbolic != "" {
			return fmt.Sprintf("%s:%s", id.kind.prefix(), id.symbolic)
		}
		return fmt.Sprintf("%s:%d", id.kind.prefix(), id.numeric)
	case KindUnixNetgroup:
		return fmt.Sprintf("%s:%s", id.kind.prefix(), id.name)
	default:
		return ""
	}
}

// FormatWithLookup formats the text form, attempting to resolve a
// symbolic name via lookup when the identity doesn't already carry one.
func FormatWithLookup(id Identity, lookup Lookup) string {
	if id.symbolic != "" || lookup == nil {
		return id.String()
	}
	switch id.kind {
	case KindUnixUser:
		if name, err := lookup.NameByUID(id.numeric); err == nil {
			return fmt.Sprintf("unix-user:%s", name)
		}
	case KindUnixGroup:
		if name, err := lookup.NameByGID(id.numeric); err == nil {
			return fmt.Sprintf("unix-group:%s", name)
		}
	}
	return id.String()
}
