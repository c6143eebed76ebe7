// Package authzerr defines the error kinds shared across the authority
// core: the entity model, the record codec, the authorization database
// and the decision engine all fail through these sentinels so callers
// can discriminate with errors.Is/errors.As instead of matching strings.
package authzerr

import (
	"fmt"

	"github.com/ubuntu/authorityd/internal/i18n"
)

// Kind discriminates the error kinds of spec §7.
type Kind int

const (
	// KindMalformedID is returned when an action id fails its grammar.
	KindMalformedID Kind = iota
	// KindMalformedConstraint is returned for an unknown constraint prefix.
	KindMalformedConstraint
	// KindMalformedRecord is returned when a record line fails decoding.
	KindMalformedRecord
	// KindLookupFailed is returned when a name/uid resolution fails.
	KindLookupFailed
	// KindNotAuthorizedToEnumerate is returned for a cross-uid read without privilege.
	KindNotAuthorizedToEnumerate
	// KindNotAuthorizedToRevoke is returned for a revoke without privilege.
	KindNotAuthorizedToRevoke
	// KindHelperCrashed is returned when a privileged helper died by signal.
	KindHelperCrashed
	// KindGeneralError covers any other helper/spawn failure.
	KindGeneralError
	// KindOutOfMemory is propagated verbatim and never masked.
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindMalformedID:
		return "MalformedId"
	case KindMalformedConstraint:
		return "MalformedConstraint"
	case KindMalformedRecord:
		return "MalformedRecord"
	case KindLookupFailed:
		return "LookupFailed"
	case KindNotAuthorizedToEnumerate:
		return "NotAuthorizedToEnumerate"
	case KindNotAuthorizedToRevoke:
		return "NotAuthorizedToRevoke"
	case KindHelperCrashed:
		return "HelperCrashed"
	case KindGeneralError:
		return "GeneralError"
	case KindOutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error is the sentinel-carrying error value used throughout the core.
type Error struct {
	Kind    Kind
	Input   string // offending input, for Malformed* and LookupFailed
	Context string // helper name, for HelperCrashed/GeneralError
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMalformedID, KindMalformedConstraint, KindMalformedRecord:
		return fmt.Sprintf(i18n.G("%s: %q"), e.Kind, e.Input)
	case KindLookupFailed:
		return fmt.Sprintf(i18n.G("lookup failed for %q"), e.Input)
	case KindHelperCrashed:
		return fmt.Sprintf(i18n.G("helper %q crashed"), e.Context)
	case KindGeneralError:
		if e.Err != nil {
			return fmt.Sprintf(i18n.G("%s: %v"), e.Context, e.Err)
		}
		return e.Context
	default:
		if e.Err != nil {
			return fmt.Sprintf(i18n.G("%s: %v"), e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, authzerr.OutOfMemory) and friends work against
// the Kind-only sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Input != "" && t.Input != e.Input {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels usable with errors.Is, carrying only a Kind.
var (
	OutOfMemory              = &Error{Kind: KindOutOfMemory}
	NotAuthorizedToEnumerate = &Error{Kind: KindNotAuthorizedToEnumerate}
	NotAuthorizedToRevoke    = &Error{Kind: KindNotAuthorizedToRevoke}
)

// MalformedID builds a KindMalformedID error for the offending id string.
func MalformedID(s string) error { return &Error{Kind: KindMalformedID, Input: s} }

// MalformedConstraint builds a KindMalformedConstraint error.
func MalformedConstraint(s string) error { return &Error{Kind: KindMalformedConstraint, Input: s} }

// MalformedRecord builds a KindMalformedRecord error.
func MalformedRecord(s string) error { return &Error{Kind: KindMalformedRecord, Input: s} }

// LookupFailed builds a KindLookupFailed error for the given key.
func LookupFailed(key string, cause error) error {
	return &Error{Kind: KindLookupFailed, Input: key, Err: cause}
}

// HelperCrashed builds a KindHelperCrashed error naming the helper.
func HelperCrashed(which string) error { return &Error{Kind: KindHelperCrashed, Context: which} }

// General builds a KindGeneralError error with free-form context.
func General(context string, cause error) error {
	return &Error{Kind: KindGeneralError, Context: context, Err: cause}
}
