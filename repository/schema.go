package repository

import (
	"context"
	"fmt"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/uptrace/bun"
)

// CreateSchema creates the users and permission_grants tables if missing
func CreateSchema(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*auth.User)(nil),
		(*GrantModel)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	return nil
}
