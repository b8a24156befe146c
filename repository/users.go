package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UserRepository implements auth.UserStore using Bun
type UserRepository struct {
	db  *bun.DB
	now func() time.Time
}

var _ auth.UserStore = (*UserRepository)(nil)

// NewUserRepository creates a new repository
func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Insert implements auth.UserStore. The id is assigned by the database.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	now := r.now().UTC()
	user.CreatedAt = &now
	user.UpdatedAt = &now
	user.EnsureStatus()

	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByEmail implements auth.UserStore
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user := new(auth.User)
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByID implements auth.UserStore
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	user := new(auth.User)
	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update implements auth.UserStore. The row is matched on both id and the
// previous email inside a single statement, so a re-key is atomic.
func (r *UserRepository) Update(ctx context.Context, previousEmail string, user *auth.User) error {
	now := r.now().UTC()
	user.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(user).
		Column("email", "display_name", "password_hash", "user_role", "status", "updated_at", "deleted_at").
		Where("id = ?", user.ID).
		Where("email = ?", previousEmail).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// Count returns the number of stored users, deleted ones included
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*auth.User)(nil)).Count(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed: unique")
}
