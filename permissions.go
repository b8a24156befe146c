package auth

import (
	"context"
	"iter"
	"slices"
	"sync"
)

// GrantResult tells callers whether Grant changed the set
type GrantResult int

const (
	// GrantCreated the triple was not present and has been added
	GrantCreated GrantResult = iota + 1
	// GrantExists the triple was already present, nothing changed
	GrantExists
)

func (r GrantResult) String() string {
	switch r {
	case GrantCreated:
		return "created"
	case GrantExists:
		return "exists"
	default:
		return "unknown"
	}
}

// PermissionEngine owns the (role, resource, action) grant set
type PermissionEngine struct {
	mu     sync.RWMutex
	grants map[Grant]struct{}
	domain Domain
	store  GrantStore
	logger Logger
}

var _ Authorizer = (*PermissionEngine)(nil)

// PermissionOption configures a PermissionEngine
type PermissionOption func(*PermissionEngine)

// WithDomain replaces the default roles, resources and actions
func WithDomain(domain Domain) PermissionOption {
	return func(e *PermissionEngine) {
		e.domain = domain
	}
}

// WithGrantStore makes every mutation write through to store
func WithGrantStore(store GrantStore) PermissionOption {
	return func(e *PermissionEngine) {
		e.store = store
	}
}

// WithPermissionLogger sets the logger
func WithPermissionLogger(logger Logger) PermissionOption {
	return func(e *PermissionEngine) {
		e.logger = normalizeLogger(logger)
	}
}

// NewPermissionEngine returns an engine holding the given grants. Grants
// outside the domain are dropped with a warning.
func NewPermissionEngine(initial []Grant, opts ...PermissionOption) *PermissionEngine {
	e := &PermissionEngine{
		grants: make(map[Grant]struct{}, len(initial)),
		domain: DefaultDomain(),
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	for _, g := range initial {
		if err := e.domain.Validate(g); err != nil {
			e.logger.Warn("permission engine skipped initial grant", "grant", g.String())
			continue
		}
		e.grants[g] = struct{}{}
	}

	return e
}

// Domain returns the enumerations grants are validated against
func (e *PermissionEngine) Domain() Domain {
	return e.domain
}

// IsAuthorized reports whether the grant set holds (role, resource, action)
func (e *PermissionEngine) IsAuthorized(role Role, resource Resource, action Action) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.grants[Grant{Role: role, Resource: resource, Action: action}]
	return ok
}

// Grant adds g to the set. Adding a present triple is not an error; the
// result tells the two cases apart.
func (e *PermissionEngine) Grant(ctx context.Context, g Grant) (GrantResult, error) {
	if err := e.domain.Validate(g); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.grants[g]; ok {
		return GrantExists, nil
	}

	if e.store != nil {
		if err := e.store.SaveGrant(ctx, g); err != nil {
			return 0, internalError(err, "failed to persist grant")
		}
	}

	e.grants[g] = struct{}{}
	e.logger.Info("permission granted", "grant", g.String())
	return GrantCreated, nil
}

// Revoke removes g from the set. An absent triple fails with
// ErrGrantNotFound and leaves the set untouched.
func (e *PermissionEngine) Revoke(ctx context.Context, g Grant) error {
	if err := e.domain.Validate(g); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.grants[g]; !ok {
		return ErrGrantNotFound
	}

	if e.store != nil {
		if err := e.store.DeleteGrant(ctx, g); err != nil {
			return internalError(err, "failed to delete grant")
		}
	}

	delete(e.grants, g)
	e.logger.Info("permission revoked", "grant", g.String())
	return nil
}

// List returns the current grants as a sequence. Each range takes a fresh
// snapshot, so the sequence can be walked any number of times and never
// holds the engine lock while the caller's loop body runs.
func (e *PermissionEngine) List() iter.Seq[Grant] {
	return func(yield func(Grant) bool) {
		for _, g := range e.snapshot() {
			if !yield(g) {
				return
			}
		}
	}
}

// Len returns the number of grants
func (e *PermissionEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.grants)
}

// Load replaces the in memory set with the contents of the grant store.
// It is a no-op when the engine has no store. The engine lock is held from
// the read to the swap so concurrent Grant and Revoke calls are never lost.
func (e *PermissionEngine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	stored, err := e.store.LoadGrants(ctx)
	if err != nil {
		return internalError(err, "failed to load grants")
	}

	next := make(map[Grant]struct{}, len(stored))
	for _, g := range stored {
		if err := e.domain.Validate(g); err != nil {
			e.logger.Warn("permission engine skipped stored grant", "grant", g.String())
			continue
		}
		next[g] = struct{}{}
	}

	e.grants = next

	e.logger.Debug("permission engine loaded grants", "count", len(next))
	return nil
}

func (e *PermissionEngine) snapshot() []Grant {
	e.mu.RLock()
	out := make([]Grant, 0, len(e.grants))
	for g := range e.grants {
		out = append(out, g)
	}
	e.mu.RUnlock()

	slices.SortFunc(out, compareGrants)
	return out
}
