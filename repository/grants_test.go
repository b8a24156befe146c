package repository

import (
	"context"
	"slices"
	"testing"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantRepositorySaveLoadDelete(t *testing.T) {
	repo := setupManager(t).Grants()
	ctx := context.Background()

	g1 := auth.Grant{Role: auth.RoleUser, Resource: auth.ResourceProject, Action: auth.ActionRead}
	g2 := auth.Grant{Role: auth.RoleAdmin, Resource: auth.ResourceTask, Action: auth.ActionDelete}

	require.NoError(t, repo.SaveGrant(ctx, g1))
	require.NoError(t, repo.SaveGrant(ctx, g2))
	require.NoError(t, repo.SaveGrant(ctx, g1), "saving twice is a no-op")

	grants, err := repo.LoadGrants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []auth.Grant{g2, g1}, grants)

	require.NoError(t, repo.DeleteGrant(ctx, g1))

	grants, err = repo.LoadGrants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []auth.Grant{g2}, grants)
}

func TestGrantRepositoryBacksEngine(t *testing.T) {
	repo := setupManager(t).Grants()
	ctx := context.Background()

	engine := auth.NewPermissionEngine(nil, auth.WithGrantStore(repo))

	g := auth.Grant{Role: auth.RoleManager, Resource: auth.ResourceProject, Action: auth.ActionDelete}

	result, err := engine.Grant(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, auth.GrantCreated, result)

	reloaded := auth.NewPermissionEngine(nil, auth.WithGrantStore(repo))
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.IsAuthorized(auth.RoleManager, auth.ResourceProject, auth.ActionDelete))
	assert.Equal(t, []auth.Grant{g}, slices.Collect(reloaded.List()))

	require.NoError(t, reloaded.Revoke(ctx, g))

	stored, err := repo.LoadGrants(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
