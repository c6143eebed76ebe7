// Package authdb implements the AuthorizationDatabase (§4.3): a
// per-uid cache of AuthorizationRecord lists loaded through the
// privileged read-helper, with revoke and invalidate operations that
// go through the revoke-helper and drop the cache as a whole.
//
// The database is single-threaded relative to its own operations; a
// host that needs concurrent access must instantiate one DB per
// goroutine or serialize calls externally (§5).
package authdb

import (
	"context"
	"strconv"
	"strings"

	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/authzerr"
	"github.com/ubuntu/authorityd/internal/helper"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/log"
	"github.com/ubuntu/authorityd/internal/record"
)

// allUIDsKey is the cache key used for "enumerate every record" queries.
const allUIDsKey = "all"

// HelperPaths names the two helpers the DB invokes.
type HelperPaths struct {
	ReadAuthorizations  string
	RevokeAuthorization string
}

// DB is the AuthorizationDatabase. The zero value is not usable; build
// one with New.
type DB struct {
	helpers HelperPaths

	// cache maps a uid (formatted as decimal, or allUIDsKey) to its
	// ordered record list. Loading invalidates nothing; only
	// Revoke/Invalidate drop entries.
	cache map[string][]record.Record

	// canEnumerate reports whether this process may query every uid at
	// once; surfaced by the read-helper's exit code in production, but
	// injectable for tests.
	canEnumerate func() bool
}

// Option configures a DB at construction time.
type Option func(*DB)

// WithCanEnumerate overrides the enumerate-privilege probe (tests only).
func WithCanEnumerate(f func() bool) Option {
	return func(d *DB) { d.canEnumerate = f }
}

// New builds a DB backed by the given helper paths.
func New(helpers HelperPaths, opts ...Option) *DB {
	d := &DB{
		helpers:      helpers,
		cache:        make(map[string][]record.Record),
		canEnumerate: func() bool { return false },
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// LoadForUID returns the ordered record list for uid, populating the
// cache on a miss. The returned slice is a snapshot; callers must not
// mutate it.
func (d *DB) LoadForUID(ctx context.Context, uid uint32) ([]record.Record, error) {
	key := strconv.FormatUint(uint64(uid), 10)
	if recs, ok := d.cache[key]; ok {
		return recs, nil
	}

	res, err := helper.SpawnSync(ctx, []string{d.helpers.ReadAuthorizations, key})
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, authzerr.NotAuthorizedToEnumerate
	}

	recs := record.DecodeStream(string(res.Stdout), uid, func(line string, err error) {
		log.Debugf(ctx, i18n.G("skipping malformed authorization record line %q: %v"), line, err)
	})
	d.cache[key] = recs
	return recs, nil
}

// loadAll returns every uid's records at once, requiring the
// enumerate privilege.
func (d *DB) loadAll(ctx context.Context) ([]record.Record, error) {
	if recs, ok := d.cache[allUIDsKey]; ok {
		return recs, nil
	}
	if !d.canEnumerate() {
		return nil, authzerr.NotAuthorizedToEnumerate
	}

	res, err := helper.SpawnSync(ctx, []string{d.helpers.ReadAuthorizations, "0"})
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, authzerr.NotAuthorizedToEnumerate
	}

	recs := record.DecodeStream(string(res.Stdout), 0, func(line string, err error) {
		log.Debugf(ctx, i18n.G("skipping malformed authorization record line %q: %v"), line, err)
	})
	d.cache[allUIDsKey] = recs
	return recs, nil
}

// snapshot is one iterated record, refcount-bumped before the Foreach
// callback runs so later cache invalidation (triggered by the
// callback itself, e.g. a one-shot revoke) cannot pull the record out
// from under it.
type snapshot struct {
	rec      record.Record
	refcount int
}

// Foreach iterates over records matching actionID (if non-nil) and uid
// (if ok is true); with uid absent, a full enumeration is attempted,
// requiring the enumerate privilege. The callback sees a stable copy:
// the list is copied and each record's refcount bumped before any
// callback runs, because the callback may invalidate the cache (e.g.
// one-shot revocation during a decision).
func (d *DB) Foreach(ctx context.Context, actionID *action.Action, uid uint32, hasUID bool, fn func(record.Record) error) error {
	var recs []record.Record
	var err error
	if hasUID {
		recs, err = d.LoadForUID(ctx, uid)
	} else {
		recs, err = d.loadAll(ctx)
	}
	if err != nil {
		return err
	}

	snaps := make([]snapshot, len(recs))
	for i, r := range recs {
		snaps[i] = snapshot{rec: r, refcount: 1}
	}

	for _, s := range snaps {
		if actionID != nil && !s.rec.ActionID.Equal(*actionID) {
			continue
		}
		if err := fn(s.rec); err != nil {
			return err
		}
	}
	return nil
}

// Revoke invokes the revoke-helper with the record's verbatim retained
// line and uid; success invalidates the cache as a whole.
func (d *DB) Revoke(ctx context.Context, r record.Record) error {
	uidStr := strconv.FormatUint(uint64(r.UID), 10)
	line := strings.TrimRight(r.Raw, "\n")
	res, err := helper.SpawnSync(ctx, []string{d.helpers.RevokeAuthorization, line, "uid", uidStr})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return authzerr.NotAuthorizedToRevoke
	}
	d.Invalidate()
	return nil
}

// Invalidate drops the entire cache atomically.
func (d *DB) Invalidate() {
	d.cache = make(map[string][]record.Record)
}

// IsUIDBlockedBySelf returns true iff at least one record matching
// action is explicit, negative, and granted-by uid itself, and no
// other uid has contributed an explicit negative for the same action.
func (d *DB) IsUIDBlockedBySelf(ctx context.Context, actionID action.Action, uid uint32) (bool, error) {
	recs, err := d.LoadForUID(ctx, uid)
	if err != nil {
		return false, err
	}

	blockedBySelf := false
	blockedByOther := false
	for _, r := range recs {
		if !r.ActionID.Equal(actionID) || r.Provenance != record.ProvenanceExplicit || !r.IsNegative {
			continue
		}
		if r.GrantedBy == uid {
			blockedBySelf = true
		} else {
			blockedByOther = true
		}
	}
	return blockedBySelf && !blockedByOther, nil
}

// TemporaryAuthorizations returns the subset of uid's records that are
// not permanent grants (scope != always, or a one-shot/session grant
// via defaults) — a read-only view used by administrative tooling to
// show "authorizations that will expire", supplementing the core
// record model with the same rendering polkit's own
// EnumerateTemporaryAuthorizations call exposes.
func (d *DB) TemporaryAuthorizations(ctx context.Context, uid uint32) ([]record.Record, error) {
	recs, err := d.LoadForUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	var out []record.Record
	for _, r := range recs {
		if r.Scope != record.ScopeAlways {
			out = append(out, r)
		}
	}
	return out, nil
}
