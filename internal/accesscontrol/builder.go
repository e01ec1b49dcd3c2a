package accesscontrol

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// RouteDescriptor identifies one mounted resource route. The router produces
// the full set at registration time.
type RouteDescriptor struct {
	Resource string
	Action   Action
	Method   string
	Path     string
}

// RoleRef is a role as referenced by a stored permission rule.
type RoleRef struct {
	ID              int64
	IsAuthenticated bool
}

// MethodRule is one stored {method name, allowed roles} entry.
type MethodRule struct {
	Name  string
	Roles []RoleRef
}

// ResourceRule is a stored resource permission with its method entries,
// already populated with role references.
type ResourceRule struct {
	ResourceName string
	Methods      []MethodRule
}

// RuleStore reads all resource permissions in one bulk call per rebuild.
type RuleStore interface {
	ListResourceRules(ctx context.Context) ([]ResourceRule, error)
}

// Rebuilder owns the process-wide permission table. Readers get the current
// snapshot through Current; Rebuild swaps in a complete replacement
// atomically, so a reader never observes a half-built table. Concurrent
// rebuilds are serialized.
type Rebuilder struct {
	store  RuleStore
	routes []RouteDescriptor
	logger *slog.Logger

	mu      sync.Mutex
	current atomic.Pointer[Table]
}

func NewRebuilder(store RuleStore, routes []RouteDescriptor, logger *slog.Logger) *Rebuilder {
	return &Rebuilder{
		store:  store,
		routes: routes,
		logger: logger,
	}
}

// Current returns the latest complete snapshot, or nil when no rebuild has
// ever succeeded. Callers treat nil as deny.
func (r *Rebuilder) Current() *Table {
	return r.current.Load()
}

// Rebuild reads every stored rule and produces a fresh table covering the
// registered routes. On store failure the previous snapshot stays in effect
// and the error is returned; the caller decides whether that is fatal (it is
// at boot).
func (r *Rebuilder) Rebuild(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rules, err := r.store.ListResourceRules(ctx)
	if err != nil {
		return fmt.Errorf("list resource rules: %w", err)
	}

	byResource := make(map[string]ResourceRule, len(rules))
	for _, rule := range rules {
		byResource[rule.ResourceName] = rule
	}

	table := newTable()
	routed := make(map[string]struct{}, len(r.routes))

	for _, route := range r.routes {
		routed[route.Resource] = struct{}{}

		rule, ok := byResource[route.Resource]
		if !ok {
			// deny-by-default: routed but unconfigured pairs get no entry
			continue
		}

		e := entry{roles: make(map[int64]struct{})}
		matched := false
		for _, m := range rule.Methods {
			action, err := ParseAction(m.Name)
			if err != nil {
				r.logger.Warn("skipping permission method with unknown name",
					"resource", rule.ResourceName, "method", m.Name)
				continue
			}
			if action != route.Action {
				continue
			}
			// duplicate method entries: last write wins
			e.roles = make(map[int64]struct{}, len(m.Roles))
			e.allowAnonymous = false
			for _, role := range m.Roles {
				e.roles[role.ID] = struct{}{}
				if !role.IsAuthenticated {
					e.allowAnonymous = true
				}
			}
			matched = true
		}
		if matched {
			table.entries[key{resource: route.Resource, action: route.Action}] = e
		}
	}

	for name := range byResource {
		if _, ok := routed[name]; !ok {
			r.logger.Warn("resource permission does not match any registered route",
				"resource", name)
		}
	}

	r.current.Store(table)
	r.logger.Info("permission table rebuilt",
		"entries", table.Len(), "routes", len(r.routes), "rules", len(rules))
	return nil
}
