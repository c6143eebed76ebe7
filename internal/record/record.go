// Package record implements the AuthorizationRecord value type and its
// line-oriented text codec (§4.2).
package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/authzerr"
	"github.com/ubuntu/authorityd/internal/constraint"
)

// Scope is the lifetime of an authorization record.
type Scope int

const (
	// ScopeProcessOneShot is consumed on first successful use.
	ScopeProcessOneShot Scope = iota
	// ScopeProcess binds to a (pid, start_time) for its lifetime.
	ScopeProcess
	// ScopeSession binds to a session id for its lifetime.
	ScopeSession
	// ScopeAlways never expires.
	ScopeAlways
)

func (s Scope) String() string {
	switch s {
	case ScopeProcessOneShot:
		return "process-one-shot"
	case ScopeProcess:
		return "process"
	case ScopeSession:
		return "session"
	case ScopeAlways:
		return "always"
	default:
		return "unknown"
	}
}

func parseScope(s string) (Scope, bool) {
	switch s {
	case "process-one-shot":
		return ScopeProcessOneShot, true
	case "process":
		return ScopeProcess, true
	case "session":
		return ScopeSession, true
	case "always":
		return ScopeAlways, true
	default:
		return 0, false
	}
}

// Provenance discriminates how a record came to exist.
type Provenance int

const (
	// ProvenanceDefaults means the record was granted via a successful
	// interactive authentication against the policy catalog defaults.
	ProvenanceDefaults Provenance = iota
	// ProvenanceExplicit means the record was granted by an authorized user.
	ProvenanceExplicit
)

// Record is a single authorization-database entry (§3).
type Record struct {
	Scope      Scope
	ActionID   action.Action
	UID        uint32
	WhenGranted int64 // seconds since epoch

	// Exactly one of these is meaningful, chosen by Scope.
	PID           int32
	PIDStartTime  uint64
	SessionID     string

	Provenance Provenance
	// AuthenticatedAs is set when Provenance == ProvenanceDefaults.
	AuthenticatedAs uint32
	// GrantedBy/IsNegative are set when Provenance == ProvenanceExplicit.
	GrantedBy  uint32
	IsNegative bool

	Constraints []constraint.Constraint

	// Raw is the original textual line, retained verbatim and used
	// when revoking.
	Raw string
}

// Encode renders the record as a single colon-separated key=value
// line terminated by a newline. It is the inverse of Decode, except
// that a record Decoded from a line with unknown keys or loose
// formatting round-trips through its retained Raw line, not through
// Encode; Encode is used to synthesize new records.
func (r Record) Encode() string {
	var b strings.Builder
	b.WriteString("scope=")
	switch {
	case r.Provenance == ProvenanceExplicit && r.IsNegative:
		b.WriteString("grant-negative")
	case r.Provenance == ProvenanceExplicit:
		b.WriteString("grant")
	default:
		b.WriteString(r.Scope.String())
	}

	switch r.Scope {
	case ScopeProcessOneShot, ScopeProcess:
		fmt.Fprintf(&b, ":pid=%d:pid-start-time=%d", r.PID, r.PIDStartTime)
	case ScopeSession:
		fmt.Fprintf(&b, ":session-id=%s", r.SessionID)
	}

	fmt.Fprintf(&b, ":action-id=%s:when=%d", r.ActionID.String(), r.WhenGranted)

	switch r.Provenance {
	case ProvenanceDefaults:
		fmt.Fprintf(&b, ":auth-as=%d", r.AuthenticatedAs)
	case ProvenanceExplicit:
		fmt.Fprintf(&b, ":granted-by=%d", r.GrantedBy)
	}

	for _, c := range r.Constraints {
		b.WriteString(":constraint=")
		b.WriteString(c.String())
	}
	b.WriteByte('\n')
	return b.String()
}

// requiredKeysFor returns the required-key set for a scope token (see
// §4.2's table); "grant" and "grant-negative" are the explicit-grant
// tokens and are keyed on granted-by instead of auth-as.
func requiredKeysFor(scopeToken string) (keys []string, ok bool) {
	switch scopeToken {
	case "process-one-shot", "process":
		return []string{"pid", "pid-start-time", "action-id", "when", "auth-as"}, true
	case "session":
		return []string{"session-id", "action-id", "when", "auth-as"}, true
	case "always":
		return []string{"action-id", "when", "auth-as"}, true
	case "grant":
		return []string{"action-id", "when", "granted-by"}, true
	case "grant-negative":
		return []string{"action-id", "when", "granted-by"}, true
	default:
		return nil, false
	}
}

// Decode parses a single record line. uid is supplied by the caller
// (per-uid files do not repeat it); the raw line is retained
// verbatim. Each required key must appear exactly once; duplicate
// required keys, an unknown scope, missing required keys, or an
// invalid action-id all yield MalformedRecord. Unknown keys are
// accepted and ignored for decoding purposes, per the forward-
// compatibility contract.
func Decode(line string, uid uint32) (Record, error) {
	raw := line
	line = strings.TrimRight(line, "\n")

	tokens := strings.Split(line, ":")
	if len(tokens) == 0 {
		return Record{}, authzerr.MalformedRecord(raw)
	}

	seen := make(map[string]string)
	order := make(map[string]int)
	var constraints []constraint.Constraint
	for i, tok := range tokens {
		idx := strings.IndexByte(tok, '=')
		if idx < 0 {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		key, value := tok[:idx], tok[idx+1:]
		if key == "constraint" {
			c, err := constraint.Parse(value)
			if err != nil {
				return Record{}, authzerr.MalformedRecord(raw)
			}
			constraints = append(constraints, c)
			continue
		}
		if key == "scope" && i != 0 {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		if _, ok := order[key]; ok {
			// Duplicate key: checked below once we know which keys are
			// required for this scope; record the duplicate now.
			order[key] = -1
		} else {
			order[key] = i
		}
		seen[key] = value
	}

	scopeToken, ok := seen["scope"]
	if !ok {
		return Record{}, authzerr.MalformedRecord(raw)
	}
	requiredKeys, ok := requiredKeysFor(scopeToken)
	if !ok {
		return Record{}, authzerr.MalformedRecord(raw)
	}
	for _, k := range requiredKeys {
		if order[k] == -1 {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		if _, present := seen[k]; !present {
			return Record{}, authzerr.MalformedRecord(raw)
		}
	}

	r := Record{UID: uid, Raw: raw, Constraints: constraints}

	switch scopeToken {
	case "process-one-shot":
		r.Scope = ScopeProcessOneShot
	case "process":
		r.Scope = ScopeProcess
	case "session":
		r.Scope = ScopeSession
	case "always":
		r.Scope = ScopeAlways
	case "grant":
		r.Scope = ScopeAlways
		r.Provenance = ProvenanceExplicit
		r.IsNegative = false
	case "grant-negative":
		r.Scope = ScopeAlways
		r.Provenance = ProvenanceExplicit
		r.IsNegative = true
	}

	if scopeToken == "process-one-shot" || scopeToken == "process" {
		pid, err := parseFullInt64(seen["pid"])
		if err != nil {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		r.PID = int32(pid)
		startTime, err := parseFullUint64(seen["pid-start-time"])
		if err != nil {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		r.PIDStartTime = startTime
	}
	if scopeToken == "session" {
		r.SessionID = seen["session-id"]
	}

	a, err := action.Parse(seen["action-id"])
	if err != nil {
		return Record{}, authzerr.MalformedRecord(raw)
	}
	r.ActionID = a

	when, err := parseFullInt64(seen["when"])
	if err != nil {
		return Record{}, authzerr.MalformedRecord(raw)
	}
	r.WhenGranted = when

	if scopeToken == "grant" || scopeToken == "grant-negative" {
		grantedBy, err := parseFullUint64(seen["granted-by"])
		if err != nil {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		r.GrantedBy = uint32(grantedBy)
	} else {
		r.Provenance = ProvenanceDefaults
		authAs, err := parseFullUint64(seen["auth-as"])
		if err != nil {
			return Record{}, authzerr.MalformedRecord(raw)
		}
		r.AuthenticatedAs = uint32(authAs)
	}

	return r, nil
}

func parseFullInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseFullUint64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// DecodeStream parses an aggregate read-helper stream: blank lines and
// '#'-prefixed lines other than "#uid=<n>" are ignored; a "#uid=<n>"
// line reassigns the uid context for subsequent lines, starting from
// defaultUID. A line that fails to decode is skipped (and reported via
// onMalformed, if non-nil) rather than aborting the whole load, per
// the forward-compatibility / per-line error policy of §7.
func DecodeStream(stream string, defaultUID uint32, onMalformed func(line string, err error)) []Record {
	uid := defaultUID
	var out []Record
	for _, line := range strings.Split(stream, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if u, ok := parseUIDHeader(trimmed); ok {
				uid = u
			}
			continue
		}
		r, err := Decode(line, uid)
		if err != nil {
			if onMalformed != nil {
				onMalformed(line, err)
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseUIDHeader(line string) (uint32, bool) {
	const prefix = "#uid="
	if !strings.HasPrefix(line, prefix) {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(line, prefix), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
