package auth

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the user's role
type Role string

const (
	// RoleUser is the default role for registered accounts
	RoleUser Role = "USER"
	// RoleManager manages projects and tasks
	RoleManager Role = "MANAGER"
	// RoleAdmin administers accounts and permissions
	RoleAdmin Role = "ADMIN"
)

// Resource is a protected resource kind
type Resource string

const (
	ResourceProject     Resource = "PROJECT"
	ResourceTask        Resource = "TASK"
	ResourcePermissions Resource = "PERMISSIONS"
)

// Action is an operation on a resource
type Action string

const (
	ActionRead   Action = "READ"
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Grant is a single (role, resource, action) permission triple
type Grant struct {
	Role     Role     `json:"role"`
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
}

func (g Grant) String() string {
	return fmt.Sprintf("%s:%s:%s", g.Role, g.Resource, g.Action)
}

func compareGrants(a, b Grant) int {
	if c := strings.Compare(string(a.Role), string(b.Role)); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.Resource), string(b.Resource)); c != 0 {
		return c
	}
	return strings.Compare(string(a.Action), string(b.Action))
}

// Domain holds the closed enumerations a grant must be drawn from
type Domain struct {
	Roles     []Role
	Resources []Resource
	Actions   []Action
}

// DefaultDomain returns the built in roles, resources and actions
func DefaultDomain() Domain {
	return Domain{
		Roles:     []Role{RoleUser, RoleManager, RoleAdmin},
		Resources: []Resource{ResourceProject, ResourceTask, ResourcePermissions},
		Actions:   []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	}
}

// HasRole reports whether role belongs to the domain
func (d Domain) HasRole(role Role) bool {
	return slices.Contains(d.Roles, role)
}

// HasResource reports whether resource belongs to the domain
func (d Domain) HasResource(resource Resource) bool {
	return slices.Contains(d.Resources, resource)
}

// HasAction reports whether action belongs to the domain
func (d Domain) HasAction(action Action) bool {
	return slices.Contains(d.Actions, action)
}

// Validate returns ErrInvalidGrantDomain if any element of the grant is unknown
func (d Domain) Validate(g Grant) error {
	if d.HasRole(g.Role) && d.HasResource(g.Resource) && d.HasAction(g.Action) {
		return nil
	}

	return ErrInvalidGrantDomain
}

// ParseGrant builds a grant from raw names, rejecting anything outside the domain
func (d Domain) ParseGrant(role, resource, action string) (Grant, error) {
	g := Grant{
		Role:     Role(strings.TrimSpace(role)),
		Resource: Resource(strings.TrimSpace(resource)),
		Action:   Action(strings.TrimSpace(action)),
	}
	if err := d.Validate(g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// DefaultGrants is the grant set seeded on a fresh install. Admins hold every
// action on every resource, managers work on projects and tasks, plain users
// start with nothing.
func DefaultGrants() []Grant {
	domain := DefaultDomain()
	grants := make([]Grant, 0, len(domain.Resources)*len(domain.Actions)+6)

	for _, res := range domain.Resources {
		for _, act := range domain.Actions {
			grants = append(grants, Grant{Role: RoleAdmin, Resource: res, Action: act})
		}
	}

	for _, res := range []Resource{ResourceProject, ResourceTask} {
		for _, act := range []Action{ActionRead, ActionCreate, ActionUpdate} {
			grants = append(grants, Grant{Role: RoleManager, Resource: res, Action: act})
		}
	}

	return grants
}
