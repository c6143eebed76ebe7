// Package decision implements the single-pass decision algorithm of
// §4.4: combine matching authorization records with constraint
// evaluation to yield {authorized, negative_authorized}. Composing
// that pair with the policy catalog's implicit defaults (§4.1 of the
// glossary's "implicit authorization") is left to the caller — the
// engine itself only evaluates records.
package decision

import (
	"context"

	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/authdb"
	"github.com/ubuntu/authorityd/internal/constraint"
	"github.com/ubuntu/authorityd/internal/record"
	"github.com/ubuntu/authorityd/internal/session"
	"github.com/ubuntu/authorityd/internal/subject"
)

// Result is the outcome of a single decision query.
type Result struct {
	Authorized bool
	Negative   bool
}

// Caller is the resolved calling context for a process-backed query:
// its subject (must carry a uid), and everything constraint matching
// needs (its session, if any, and the capability closures for
// REQUIRE-EXE / REQUIRE-SELINUX-CONTEXT).
type Caller struct {
	Subject        subject.Subject
	Session        session.Session
	HasSession     bool
	ResolveExePath func(ctx context.Context) (string, bool)
	SELinuxContext func(ctx context.Context) (string, bool)
}

func (c Caller) asConstraintCaller() constraint.Caller {
	return constraint.Caller{
		Session:        c.Session,
		HasSession:     c.HasSession,
		ResolveExePath: c.ResolveExePath,
		SELinuxContext: c.SELinuxContext,
	}
}

// Engine evaluates decisions against an AuthorizationDatabase.
type Engine struct {
	DB *authdb.DB
}

// New builds an Engine bound to db.
func New(db *authdb.DB) Engine {
	return Engine{DB: db}
}

// CheckCaller evaluates actionID against caller, a process-backed
// subject. revokeIfOneShot, when true, causes a matching
// PROCESS_ONE_SHOT record to be revoked on this very query (§4.4 step
// 4e); its absence leaves one-shot records valid for future queries.
func (e Engine) CheckCaller(ctx context.Context, actionID action.Action, caller Caller, revokeIfOneShot bool) (Result, error) {
	uid, ok := caller.Subject.UID()
	if !ok {
		return Result{}, nil
	}

	cc := caller.asConstraintCaller()
	matchScope := func(r record.Record) bool {
		switch r.Scope {
		case record.ScopeProcessOneShot, record.ScopeProcess:
			if caller.Subject.Kind() != subject.KindUnixProcess {
				return false
			}
			return caller.Subject.PID() == r.PID && caller.Subject.StartTime() == r.PIDStartTime
		case record.ScopeSession:
			return caller.HasSession && caller.Session.ID == r.SessionID
		case record.ScopeAlways:
			return true
		default:
			return false
		}
	}

	return e.run(ctx, actionID, uid, cc, matchScope, revokeIfOneShot)
}

// CheckSession evaluates actionID directly against a session (for
// session-scoped queries that are not process-backed, e.g. a remote
// caller resolved only to a session id).
func (e Engine) CheckSession(ctx context.Context, actionID action.Action, sess session.Session, revokeIfOneShot bool) (Result, error) {
	cc := constraint.Caller{Session: sess, HasSession: true}
	matchScope := func(r record.Record) bool {
		switch r.Scope {
		case record.ScopeSession:
			return sess.ID == r.SessionID
		case record.ScopeAlways:
			return true
		default:
			// A session query never carries a (pid, start_time) to match
			// PROCESS/PROCESS_ONE_SHOT records against.
			return false
		}
	}
	return e.run(ctx, actionID, sess.UID, cc, matchScope, revokeIfOneShot)
}

// run is the shared single pass of §4.4 steps 2-5.
func (e Engine) run(ctx context.Context, actionID action.Action, uid uint32, cc constraint.Caller, matchScope func(record.Record) bool, revokeIfOneShot bool) (Result, error) {
	recs, err := e.DB.LoadForUID(ctx, uid)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, r := range recs {
		if !r.ActionID.Equal(actionID) {
			continue
		}

		constraintsOK := true
		for _, c := range r.Constraints {
			if !c.Matches(ctx, cc) {
				constraintsOK = false
				break
			}
		}
		if !constraintsOK {
			continue
		}

		if !matchScope(r) {
			continue
		}

		if r.Provenance == record.ProvenanceExplicit && r.IsNegative {
			result.Negative = true
			result.Authorized = false
			break
		}
		result.Authorized = true
		result.Negative = false

		if r.Scope == record.ScopeProcessOneShot && revokeIfOneShot {
			if err := e.DB.Revoke(ctx, r); err != nil {
				return Result{}, err
			}
		}
	}

	return result, nil
}
