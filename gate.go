package auth

import "context"

// AccessGate is the admission check in front of protected operations. It
// resolves the principal first and only then looks at permissions, so a bad
// token never reveals which grants would have applied.
type AccessGate struct {
	principals PrincipalResolver
	authorizer Authorizer
	logger     Logger
}

// NewAccessGate composes a principal resolver and an authorizer
func NewAccessGate(principals PrincipalResolver, authorizer Authorizer) *AccessGate {
	return &AccessGate{
		principals: principals,
		authorizer: authorizer,
		logger:     defLogger{},
	}
}

func (g *AccessGate) WithLogger(logger Logger) *AccessGate {
	g.logger = normalizeLogger(logger)
	return g
}

// Authorize admits the holder of accessToken to perform action on resource.
// Session failures are returned as is; a missing grant is ErrForbidden.
func (g *AccessGate) Authorize(ctx context.Context, accessToken string, resource Resource, action Action) (*User, error) {
	user, err := g.principals.ResolveCurrentPrincipal(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if !g.authorizer.IsAuthorized(user.Role, resource, action) {
		g.logger.Debug("access denied", "id", user.ID, "role", user.Role, "resource", resource, "action", action)
		return nil, ErrForbidden
	}

	return user, nil
}

// Admit runs Authorize and returns ctx carrying the admitted user, for
// handlers that read the principal with FromContext.
func (g *AccessGate) Admit(ctx context.Context, accessToken string, resource Resource, action Action) (context.Context, error) {
	user, err := g.Authorize(ctx, accessToken, resource, action)
	if err != nil {
		return ctx, err
	}
	return WithContext(ctx, user), nil
}

// AuthorizeRole is Authorize with an additional role requirement
func (g *AccessGate) AuthorizeRole(ctx context.Context, accessToken string, role Role, resource Resource, action Action) (*User, error) {
	user, err := g.principals.ResolveCurrentPrincipal(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if user.Role != role || !g.authorizer.IsAuthorized(user.Role, resource, action) {
		g.logger.Debug("access denied", "id", user.ID, "role", user.Role, "required", role, "resource", resource, "action", action)
		return nil, ErrForbidden
	}

	return user, nil
}
