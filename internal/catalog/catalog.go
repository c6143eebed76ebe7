// Package catalog consumes the declarative policy catalog (§6, "out
// of scope: parsing of policy catalog files ... beyond the set of
// fields the decision engine consumes"). This package implements
// exactly that narrow consumer contract — action id, vendor metadata
// and the three-valued implicit-authorization default — loaded from a
// YAML fixture rather than the upstream XML-like action-description
// format, which is explicitly out of scope for the core.
package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ubuntu/authorityd/internal/action"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/implicitauth"
	"gopkg.in/yaml.v2"
)

// Entry is one action's catalog row.
type Entry struct {
	ActionID    string `yaml:"action_id"`
	Description string `yaml:"description"`
	Vendor      string `yaml:"vendor"`
	Any         string `yaml:"implicit_any"`
	Inactive    string `yaml:"implicit_inactive"`
	Active      string `yaml:"implicit_active"`
}

type document struct {
	Actions []Entry `yaml:"actions"`
}

// Catalog is an in-memory, read-only view of the policy catalog,
// keyed by action id. It is safe for concurrent reads.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// Load parses a YAML catalog fixture at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(i18n.G("couldn't read policy catalog %q: %w"), path, err)
	}
	return Parse(data)
}

// Parse parses a YAML catalog document already read into memory.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf(i18n.G("couldn't parse policy catalog: %w"), err)
	}

	entries := make(map[string]Entry, len(doc.Actions))
	for _, e := range doc.Actions {
		if !action.Valid(e.ActionID) {
			continue
		}
		entries[e.ActionID] = e
	}
	return &Catalog{entries: entries}, nil
}

// ImplicitDefault returns the ImplicitAuthorization declared for
// actionID, and whether the action is known to the catalog at all. An
// unknown action reports the zero ImplicitAuthorization (No, No, No)
// and ok=false.
func (c *Catalog) ImplicitDefault(ctx context.Context, actionID action.Action) (implicitauth.ImplicitAuthorization, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[actionID.ID()]
	if !ok {
		return implicitauth.ImplicitAuthorization{}, false
	}
	return implicitauth.ImplicitAuthorization{
		Any:      implicitauth.Parse(e.Any),
		Inactive: implicitauth.Parse(e.Inactive),
		Active:   implicitauth.Parse(e.Active),
	}, true
}

// EnumerateActions returns every known action id, sorted, supplementing
// the core with the read-only enumeration polkit's own
// EnumerateActions call exposes over D-Bus.
func (c *Catalog) EnumerateActions(ctx context.Context) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Describe returns the full entry for actionID.
func (c *Catalog) Describe(actionID action.Action) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[actionID.ID()]
	return e, ok
}
