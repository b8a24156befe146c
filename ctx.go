package auth

import "context"

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok && raw != nil
}

// Can checks the user stored in ctx against authorizer. A context without a
// user is never allowed.
func Can(ctx context.Context, authorizer Authorizer, resource Resource, action Action) bool {
	user, ok := FromContext(ctx)
	if !ok || !user.IsActive() || authorizer == nil {
		return false
	}
	return authorizer.IsAuthorized(user.Role, resource, action)
}
