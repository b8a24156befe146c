package repository

import (
	"context"
	"time"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/uptrace/bun"
)

// GrantModel is the Bun model for permission grants
type GrantModel struct {
	bun.BaseModel `bun:"table:permission_grants,alias:pgr"`

	Role      string    `bun:"role,pk"`
	Resource  string    `bun:"resource,pk"`
	Action    string    `bun:"action,pk"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// GrantRepository implements auth.GrantStore using Bun
type GrantRepository struct {
	db *bun.DB
}

var _ auth.GrantStore = (*GrantRepository)(nil)

// NewGrantRepository creates a new repository
func NewGrantRepository(db *bun.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// LoadGrants implements auth.GrantStore
func (r *GrantRepository) LoadGrants(ctx context.Context) ([]auth.Grant, error) {
	var models []GrantModel
	err := r.db.NewSelect().
		Model(&models).
		Order("role ASC", "resource ASC", "action ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	grants := make([]auth.Grant, len(models))
	for i, m := range models {
		grants[i] = toGrant(m)
	}
	return grants, nil
}

// SaveGrant implements auth.GrantStore. Saving a stored grant is a no-op.
func (r *GrantRepository) SaveGrant(ctx context.Context, grant auth.Grant) error {
	model := fromGrant(grant)
	model.CreatedAt = time.Now().UTC()

	_, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}

// DeleteGrant implements auth.GrantStore
func (r *GrantRepository) DeleteGrant(ctx context.Context, grant auth.Grant) error {
	_, err := r.db.NewDelete().
		Model((*GrantModel)(nil)).
		Where("role = ? AND resource = ? AND action = ?", string(grant.Role), string(grant.Resource), string(grant.Action)).
		Exec(ctx)
	return err
}

func toGrant(m GrantModel) auth.Grant {
	return auth.Grant{
		Role:     auth.Role(m.Role),
		Resource: auth.Resource(m.Resource),
		Action:   auth.Action(m.Action),
	}
}

func fromGrant(g auth.Grant) *GrantModel {
	return &GrantModel{
		Role:     string(g.Role),
		Resource: string(g.Resource),
		Action:   string(g.Action),
	}
}
