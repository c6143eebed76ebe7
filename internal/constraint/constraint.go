// Package constraint implements the Constraint value type and its
// matching rules against a caller/session (§4.1).
package constraint

import (
	"context"
	"strings"

	"github.com/ubuntu/authorityd/internal/authzerr"
	"github.com/ubuntu/authorityd/internal/session"
)

// Kind discriminates the Constraint variants.
type Kind int

const (
	// KindRequireLocal requires the session to be local.
	KindRequireLocal Kind = iota
	// KindRequireActive requires the session to be active.
	KindRequireActive
	// KindRequireExe requires the caller's resolved exe path to match.
	KindRequireExe
	// KindRequireSELinuxContext requires the caller's reported context to match.
	KindRequireSELinuxContext
)

// Constraint is an immutable, extra condition attached to an
// authorization record. REQUIRE-LOCAL and REQUIRE-ACTIVE are shared
// singletons; the other two own their payload string.
type Constraint struct {
	kind    Kind
	payload string
}

// Local is the shared REQUIRE-LOCAL singleton.
var Local = Constraint{kind: KindRequireLocal}

// Active is the shared REQUIRE-ACTIVE singleton.
var Active = Constraint{kind: KindRequireActive}

// RequireExe builds a REQUIRE-EXE(path) constraint.
func RequireExe(path string) Constraint { return Constraint{kind: KindRequireExe, payload: path} }

// RequireSELinuxContext builds a REQUIRE-SELINUX-CONTEXT(ctx) constraint.
func RequireSELinuxContext(ctx string) Constraint {
	return Constraint{kind: KindRequireSELinuxContext, payload: ctx}
}

// Kind returns the constraint's variant.
func (c Constraint) Kind() Kind { return c.kind }

// Payload returns the exe path or SELinux context; empty for Local/Active.
func (c Constraint) Payload() string { return c.payload }

// Equal reports whether c and other denote the same constraint (variant + payload).
func (c Constraint) Equal(other Constraint) bool {
	return c.kind == other.kind && c.payload == other.payload
}

// String formats the "local"/"active"/"exe:<path>"/"selinux_context:<ctx>" text form.
func (c Constraint) String() string {
	switch c.kind {
	case KindRequireLocal:
		return "local"
	case KindRequireActive:
		return "active"
	case KindRequireExe:
		return "exe:" + c.payload
	case KindRequireSELinuxContext:
		return "selinux_context:" + c.payload
	default:
		return ""
	}
}

// Parse parses the text form; an unknown prefix yields MalformedConstraint.
func Parse(s string) (Constraint, error) {
	switch {
	case s == "local":
		return Local, nil
	case s == "active":
		return Active, nil
	case strings.HasPrefix(s, "exe:"):
		return RequireExe(strings.TrimPrefix(s, "exe:")), nil
	case strings.HasPrefix(s, "selinux_context:"):
		return RequireSELinuxContext(strings.TrimPrefix(s, "selinux_context:")), nil
	default:
		return Constraint{}, authzerr.MalformedConstraint(s)
	}
}

// Caller is the resolved subject context a constraint is matched
// against: a caller's session (if any) plus the identifying
// attributes REQUIRE-EXE/REQUIRE-SELINUX-CONTEXT need.
type Caller struct {
	Session        session.Session
	HasSession     bool
	ResolveExePath func(ctx context.Context) (string, bool)
	SELinuxContext func(ctx context.Context) (string, bool)
}

// Matches evaluates the constraint against caller as defined in §4.1.
func (c Constraint) Matches(ctx context.Context, caller Caller) bool {
	switch c.kind {
	case KindRequireLocal:
		return caller.HasSession && caller.Session.IsLocal
	case KindRequireActive:
		return caller.HasSession && caller.Session.IsActive
	case KindRequireExe:
		if caller.ResolveExePath == nil {
			return false
		}
		path, ok := caller.ResolveExePath(ctx)
		if !ok {
			return false
		}
		return path == c.payload
	case KindRequireSELinuxContext:
		if caller.SELinuxContext == nil {
			// Systems without this facility never fail a per-context constraint.
			return true
		}
		got, ok := caller.SELinuxContext(ctx)
		if !ok {
			return true
		}
		return got == c.payload
	default:
		return false
	}
}

// MostRestrictiveFor returns the set of constraints describing
// caller's current context, used when recording an authorization so
// the grant applies only while the caller remains in that context.
func MostRestrictiveFor(ctx context.Context, caller Caller) []Constraint {
	var out []Constraint
	if caller.HasSession && caller.Session.IsLocal {
		out = append(out, Local)
	}
	if caller.HasSession && caller.Session.IsActive {
		out = append(out, Active)
	}
	if caller.ResolveExePath != nil {
		if path, ok := caller.ResolveExePath(ctx); ok && path != "" {
			out = append(out, RequireExe(path))
		}
	}
	if caller.SELinuxContext != nil {
		if secCtx, ok := caller.SELinuxContext(ctx); ok && secCtx != "" {
			out = append(out, RequireSELinuxContext(secCtx))
		}
	}
	return out
}
