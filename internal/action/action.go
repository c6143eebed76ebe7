// Package action implements the Action value type: the opaque identity
// of a privileged operation that the authority decides on.
package action

import (
	"github.com/ubuntu/authorityd/internal/authzerr"
)

// Action is a validated action identifier. The zero value is invalid;
// construct one with Parse.
type Action struct {
	id string
}

const maxIDLength = 255

// Parse validates s against the action-id grammar: non-empty, at most
// 255 bytes, starting with a lowercase ASCII letter, and containing
// only lowercase ASCII letters, digits, '.' and '-'.
func Parse(s string) (Action, error) {
	if !Valid(s) {
		return Action{}, authzerr.MalformedID(s)
	}
	return Action{id: s}, nil
}

// Valid reports whether s satisfies the action-id grammar without
// allocating an Action.
func Valid(s string) bool {
	if len(s) == 0 || len(s) > maxIDLength {
		return false
	}
	if s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}

// ID returns the validated identifier string.
func (a Action) ID() string { return a.id }

// String implements fmt.Stringer and is the round-trip text form.
func (a Action) String() string { return a.id }

// Equal reports whether a and other denote the same action.
func (a Action) Equal(other Action) bool { return a.id == other.id }

// IsZero reports whether a is the unconstructed zero value.
func (a Action) IsZero() bool { return a.id == "" }
