package accesscontrol

import (
	"fmt"
	"time"
)

// Action is the enumerated CRUD-style method set a resource route maps to.
type Action string

const (
	ActionList   Action = "list"
	ActionShow   Action = "show"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var validActions = map[Action]struct{}{
	ActionList:   {},
	ActionShow:   {},
	ActionCreate: {},
	ActionUpdate: {},
	ActionDelete: {},
}

// ParseAction validates a stored method name against the enumerated set so
// misspelled entries are rejected instead of silently ignored.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if _, ok := validActions[a]; !ok {
		return "", fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

type key struct {
	resource string
	action   Action
}

type entry struct {
	roles map[int64]struct{}
	// allowAnonymous is set when a permitted role does not require
	// authentication (role.is_authenticated = false).
	allowAnonymous bool
}

// Table is an immutable permission snapshot. Absence of an entry, or an entry
// with an empty role set, means deny.
type Table struct {
	entries map[key]entry
	builtAt time.Time
}

func newTable() *Table {
	return &Table{
		entries: make(map[key]entry),
		builtAt: time.Now(),
	}
}

// Allowed reports whether roleID may invoke action on resource.
func (t *Table) Allowed(resource string, action Action, roleID int64) bool {
	e, ok := t.entries[key{resource: resource, action: action}]
	if !ok {
		return false
	}
	_, ok = e.roles[roleID]
	return ok
}

// AllowsAnonymous reports whether the resource action is open to callers
// without a verified identity.
func (t *Table) AllowsAnonymous(resource string, action Action) bool {
	e, ok := t.entries[key{resource: resource, action: action}]
	return ok && e.allowAnonymous
}

// Covered reports whether any rule exists for the resource action at all.
func (t *Table) Covered(resource string, action Action) bool {
	e, ok := t.entries[key{resource: resource, action: action}]
	return ok && (len(e.roles) > 0 || e.allowAnonymous)
}

func (t *Table) BuiltAt() time.Time { return t.builtAt }

// Len returns the number of (resource, action) pairs with at least one rule.
func (t *Table) Len() int { return len(t.entries) }
