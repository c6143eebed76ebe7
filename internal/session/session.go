// Package session implements the Session and Seat value types and the
// SessionService capability the core consumes (§6): looking up the
// session behind a caller and the attributes of a given session id.
package session

import (
	"context"

	"github.com/ubuntu/authorityd/internal/authzerr"
)

// Seat is an opaque, validated seat identifier.
type Seat struct {
	id string
}

const maxSeatIDLength = 255

// ParseSeat validates id against [A-Za-z0-9._:/-]{1,255}.
func ParseSeat(id string) (Seat, error) {
	if len(id) == 0 || len(id) > maxSeatIDLength {
		return Seat{}, authzerr.MalformedID(id)
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == ':' || c == '/' || c == '-':
		default:
			return Seat{}, authzerr.MalformedID(id)
		}
	}
	return Seat{id: id}, nil
}

// ID returns the validated seat identifier.
func (s Seat) ID() string { return s.id }

// IsZero reports whether s carries no seat.
func (s Seat) IsZero() bool { return s.id == "" }

// Session describes a logind-tracked session. Invariant: IsLocal iff
// RemoteHost is empty.
type Session struct {
	ID         string
	UID        uint32
	Seat       Seat
	IsLocal    bool
	IsActive   bool
	RemoteHost string
}

// Service is the §6 session-service capability the core consumes.
type Service interface {
	// SessionOf returns the session behind a caller subject, if any.
	SessionOf(ctx context.Context, pid int32) (Session, bool, error)
	// BySessionID resolves a session by its opaque id.
	BySessionID(ctx context.Context, id string) (Session, bool, error)
}
