// Package implicitauth implements the ImplicitAuthorization type: the
// policy-declared default outcome for an action, parameterized by
// whether the subject's session is any/inactive/active.
package implicitauth

// Result is one of the outcome codes of the glossary.
type Result int

const (
	// No means the action is never allowed by default.
	No Result = iota
	// AuthSelf requires authentication as the subject itself.
	AuthSelf
	// AuthAdmin requires authentication as an administrator.
	AuthAdmin
	// AuthSelfKeep is AuthSelf, retaining the grant for a while.
	AuthSelfKeep
	// AuthAdminKeep is AuthAdmin, retaining the grant for a while.
	AuthAdminKeep
	// Yes means the action is always allowed.
	Yes
)

func (r Result) String() string {
	switch r {
	case No:
		return "no"
	case AuthSelf:
		return "auth_self"
	case AuthAdmin:
		return "auth_admin"
	case AuthSelfKeep:
		return "auth_self_keep"
	case AuthAdminKeep:
		return "auth_admin_keep"
	case Yes:
		return "yes"
	default:
		return "no"
	}
}

// Parse parses a result code from its textual spelling, defaulting to
// No for any unrecognized spelling (the catalog consumer's forward-
// compatibility contract: an unknown future result is never more
// permissive than No).
func Parse(s string) Result {
	switch s {
	case "no":
		return No
	case "auth_self":
		return AuthSelf
	case "auth_admin":
		return AuthAdmin
	case "auth_self_keep":
		return AuthSelfKeep
	case "auth_admin_keep":
		return AuthAdminKeep
	case "yes":
		return Yes
	default:
		return No
	}
}

// RequiresAuthentication reports whether r needs an interactive
// authentication conversation (as opposed to Yes/No which are decided
// without prompting).
func (r Result) RequiresAuthentication() bool {
	switch r {
	case AuthSelf, AuthAdmin, AuthSelfKeep, AuthAdminKeep:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether r requires administrator authentication.
func (r Result) IsAdmin() bool {
	return r == AuthAdmin || r == AuthAdminKeep
}

// Keeps reports whether a successful authentication for r should be
// retained (scope PROCESS/SESSION rather than PROCESS_ONE_SHOT).
func (r Result) Keeps() bool {
	return r == AuthSelfKeep || r == AuthAdminKeep
}

// ImplicitAuthorization is the triple (any, inactive, active) of
// Result codes. The default value is (No, No, No).
type ImplicitAuthorization struct {
	Any      Result
	Inactive Result
	Active   Result
}

// Equal reports componentwise equality.
func (i ImplicitAuthorization) Equal(other ImplicitAuthorization) bool {
	return i.Any == other.Any && i.Inactive == other.Inactive && i.Active == other.Active
}

// For picks the applicable Result given whether the subject's session
// (if any) is active. hasSession distinguishes "no session known" from
// "session known but inactive": with no session, Any applies.
func (i ImplicitAuthorization) For(hasSession, isActive bool) Result {
	if !hasSession {
		return i.Any
	}
	if isActive {
		return i.Active
	}
	return i.Inactive
}
