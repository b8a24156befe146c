package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginAs(t *testing.T, f *fixture, email string, role auth.Role) string {
	t.Helper()
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, email, "Test", "secret", role)
	require.NoError(t, err)

	token, err := f.sessions.Login(ctx, email, "secret")
	require.NoError(t, err)
	return token
}

func TestAccessGate_Authorize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, auth.Grant{Role: auth.RoleManager, Resource: auth.ResourceTask, Action: auth.ActionUpdate})

	manager := loginAs(t, f, "m@x.com", auth.RoleManager)
	user := loginAs(t, f, "u@x.com", auth.RoleUser)

	t.Run("granted", func(t *testing.T) {
		principal, err := f.gate.Authorize(ctx, manager, auth.ResourceTask, auth.ActionUpdate)
		require.NoError(t, err)
		assert.Equal(t, "m@x.com", principal.Email)
	})

	t.Run("other action", func(t *testing.T) {
		_, err := f.gate.Authorize(ctx, manager, auth.ResourceTask, auth.ActionDelete)
		assert.ErrorIs(t, err, auth.ErrForbidden)
		assert.Equal(t, 403, auth.StatusCode(err))
	})

	t.Run("role without grant", func(t *testing.T) {
		_, err := f.gate.Authorize(ctx, user, auth.ResourceTask, auth.ActionUpdate)
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("bad token is a session failure", func(t *testing.T) {
		_, err := f.gate.Authorize(ctx, "garbage", auth.ResourceTask, auth.ActionUpdate)
		assert.ErrorIs(t, err, auth.ErrUntrustedToken)
		assert.Equal(t, 401, auth.StatusCode(err))
	})
}

func TestAccessGate_GrantChangesApplyImmediately(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := loginAs(t, f, "u@x.com", auth.RoleUser)

	_, err := f.gate.Authorize(ctx, token, auth.ResourceProject, auth.ActionRead)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.engine.Grant(ctx, userReadsProjects)
	require.NoError(t, err)

	_, err = f.gate.Authorize(ctx, token, auth.ResourceProject, auth.ActionRead)
	assert.NoError(t, err)

	require.NoError(t, f.engine.Revoke(ctx, userReadsProjects))

	_, err = f.gate.Authorize(ctx, token, auth.ResourceProject, auth.ActionRead)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestAccessGate_Admit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, userReadsProjects)
	token := loginAs(t, f, "u@x.com", auth.RoleUser)

	admitted, err := f.gate.Admit(ctx, token, auth.ResourceProject, auth.ActionRead)
	require.NoError(t, err)

	user, ok := auth.FromContext(admitted)
	require.True(t, ok)
	assert.Equal(t, "u@x.com", user.Email)

	assert.True(t, auth.Can(admitted, f.engine, auth.ResourceProject, auth.ActionRead))
	assert.False(t, auth.Can(admitted, f.engine, auth.ResourceProject, auth.ActionDelete))
	assert.False(t, auth.Can(ctx, f.engine, auth.ResourceProject, auth.ActionRead), "no user in context")

	rejected, err := f.gate.Admit(ctx, token, auth.ResourceTask, auth.ActionRead)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, ok = auth.FromContext(rejected)
	assert.False(t, ok)
}

func TestAccessGate_AuthorizeRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		auth.Grant{Role: auth.RoleAdmin, Resource: auth.ResourcePermissions, Action: auth.ActionRead},
		auth.Grant{Role: auth.RoleManager, Resource: auth.ResourcePermissions, Action: auth.ActionRead},
	)

	admin := loginAs(t, f, "admin@x.com", auth.RoleAdmin)
	manager := loginAs(t, f, "m@x.com", auth.RoleManager)

	_, err := f.gate.AuthorizeRole(ctx, admin, auth.RoleAdmin, auth.ResourcePermissions, auth.ActionRead)
	assert.NoError(t, err)

	_, err = f.gate.AuthorizeRole(ctx, admin, auth.RoleAdmin, auth.ResourcePermissions, auth.ActionDelete)
	assert.ErrorIs(t, err, auth.ErrForbidden, "role alone is not enough")

	_, err = f.gate.AuthorizeRole(ctx, manager, auth.RoleAdmin, auth.ResourcePermissions, auth.ActionRead)
	assert.ErrorIs(t, err, auth.ErrForbidden, "grant alone is not enough")
}

func TestCan_InactiveUser(t *testing.T) {
	engine := auth.NewPermissionEngine([]auth.Grant{userReadsProjects}, auth.WithPermissionLogger(nopLogger{}))

	active := &auth.User{Role: auth.RoleUser, Status: auth.UserStatusActive}
	deleted := &auth.User{Role: auth.RoleUser, Status: auth.UserStatusDeleted}

	assert.True(t, auth.Can(auth.WithContext(context.Background(), active), engine, auth.ResourceProject, auth.ActionRead))
	assert.False(t, auth.Can(auth.WithContext(context.Background(), deleted), engine, auth.ResourceProject, auth.ActionRead))
	assert.False(t, auth.Can(auth.WithContext(context.Background(), active), nil, auth.ResourceProject, auth.ActionRead))
}
