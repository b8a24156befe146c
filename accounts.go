package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// AccountRegistry owns user records. All mutations are serialized on the
// registry so uniqueness checks and writes never interleave.
type AccountRegistry struct {
	mu     sync.Mutex
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
	now    func() time.Time
}

// NewAccountRegistry returns a registry over store. A nil hasher defaults to bcrypt.
func NewAccountRegistry(store UserStore, hasher PasswordAuthenticator) *AccountRegistry {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &AccountRegistry{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (r *AccountRegistry) WithLogger(logger Logger) *AccountRegistry {
	r.logger = normalizeLogger(logger)
	return r
}

// Hasher exposes the password hasher so the session authority verifies with
// the same primitive that hashed.
func (r *AccountRegistry) Hasher() PasswordAuthenticator {
	return r.hasher
}

// Register creates an active account with the USER role
func (r *AccountRegistry) Register(ctx context.Context, email, displayName, password, passwordConfirm string) (*User, error) {
	if password != passwordConfirm {
		// email collisions are still reported first
		return r.create(ctx, email, displayName, "", RoleUser, ErrPasswordMismatch)
	}
	return r.create(ctx, email, displayName, password, RoleUser, nil)
}

// CreateAccount creates an active account with an explicit role. It is
// meant for seeding and administration, not self registration.
func (r *AccountRegistry) CreateAccount(ctx context.Context, email, displayName, password string, role Role) (*User, error) {
	return r.create(ctx, email, displayName, password, role, nil)
}

func (r *AccountRegistry) create(ctx context.Context, email, displayName, password string, role Role, deferred error) (*User, error) {
	email = NormalizeEmail(email)

	var hash string
	if deferred == nil {
		// hashing is slow, keep it outside the lock
		hash, deferred = r.hasher.HashPassword(password)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, internalError(err, "failed to look up email")
	}

	if deferred != nil {
		return nil, deferred
	}

	user := &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         role,
		Status:       UserStatusActive,
	}

	if err := r.store.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, internalError(err, "failed to create user")
	}

	r.logger.Info("account registered", "id", user.ID, "role", user.Role)
	return user.Clone(), nil
}

// UpdateProfile applies the non nil fields of upd to the account of user.
// Either every requested change lands or none does. On success user is
// updated in place and a copy is returned. Deleted accounts cannot be
// updated and fail with ErrInvalidSession.
func (r *AccountRegistry) UpdateProfile(ctx context.Context, user *User, upd ProfileUpdate) (*User, error) {
	if user == nil {
		return nil, ErrUserNotFound
	}

	var hash string
	if upd.NewPassword != nil {
		var err error
		if hash, err = r.hasher.HashPassword(*upd.NewPassword); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.store.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// a deleted account keeps its email for good
	if !current.IsActive() {
		return nil, ErrInvalidSession
	}

	previousEmail := current.Email

	if upd.Email != nil {
		email := NormalizeEmail(*upd.Email)
		if email != current.Email {
			if _, err := r.store.FindByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, ErrUserNotFound) {
				return nil, internalError(err, "failed to look up email")
			}
			current.Email = email
		}
	}

	if upd.DisplayName != nil {
		current.DisplayName = *upd.DisplayName
	}

	if upd.NewPassword != nil {
		current.PasswordHash = hash
	}

	if err := r.store.Update(ctx, previousEmail, current); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, internalError(err, "failed to update user")
	}

	if previousEmail != current.Email {
		r.logger.Info("account email changed", "id", current.ID)
	}

	*user = *current.Clone()
	return current.Clone(), nil
}

// SoftDelete marks the account deleted. The record and its email stay in
// the store. Deleting an already deleted account is a no-op.
func (r *AccountRegistry) SoftDelete(ctx context.Context, user *User) error {
	if user == nil {
		return ErrUserNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.store.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}

	if current.Status == UserStatusDeleted {
		*user = *current
		return nil
	}

	now := r.now()
	current.Status = UserStatusDeleted
	current.DeletedAt = &now

	if err := r.store.Update(ctx, current.Email, current); err != nil {
		return internalError(err, "failed to delete user")
	}

	r.logger.Info("account soft deleted", "id", current.ID)
	*user = *current.Clone()
	return nil
}

// FindByEmail is a pure lookup. Deleted accounts are returned as well.
func (r *AccountRegistry) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.store.FindByEmail(ctx, NormalizeEmail(email))
}

// FindByID is a pure lookup by id
func (r *AccountRegistry) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.store.FindByID(ctx, id)
}
