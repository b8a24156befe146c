package auth

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle state of an account
type UserStatus string

const (
	// UserStatusActive accounts can authenticate
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusDeleted accounts are soft-deleted and can never authenticate again
	UserStatusDeleted UserStatus = "DELETED"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          Role       `bun:"user_role,notnull" json:"role"`
	Status        UserStatus `bun:"status,notnull" json:"status"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
}

// IsActive reports whether the account can authenticate
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

// EnsureStatus defaults an empty status to active
func (u *User) EnsureStatus() {
	if u != nil && u.Status == "" {
		u.Status = UserStatusActive
	}
}

// Clone returns a copy safe to hand to callers outside a store lock
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.CreatedAt = cloneTime(u.CreatedAt)
	c.UpdatedAt = cloneTime(u.UpdatedAt)
	c.DeletedAt = cloneTime(u.DeletedAt)
	return &c
}

// ProfileUpdate holds the optional fields of a profile mutation.
// Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	NewPassword *string
}

// IsEmpty reports whether the update changes nothing
func (p ProfileUpdate) IsEmpty() bool {
	return p.DisplayName == nil && p.Email == nil && p.NewPassword == nil
}

// NormalizeEmail is the canonical key form of an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
