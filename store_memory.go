package auth

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryUserStore is a process local UserStore
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*User
	byID    map[int64]string
	nextID  int64
	now     func() time.Time
}

var _ UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore returns an empty store. Ids start at 1.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]*User),
		byID:    make(map[int64]string),
		nextID:  1,
		now:     time.Now,
	}
}

// Insert assigns the next sequential id and stores a copy of user
func (s *MemoryUserStore) Insert(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return ErrEmailTaken
	}

	now := s.now()
	user.ID = s.nextID
	user.CreatedAt = &now
	user.UpdatedAt = &now
	s.nextID++

	s.byEmail[user.Email] = user.Clone()
	s.byID[user.ID] = user.Email
	return nil
}

// FindByEmail returns a copy of the record keyed by email
func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindByID returns a copy of the record with id
func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.byEmail[email].Clone(), nil
}

// Update replaces the record previously keyed by previousEmail. When the
// email changed, the old key is dropped and the new one inserted under the
// same write lock.
func (s *MemoryUserStore) Update(_ context.Context, previousEmail string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byEmail[previousEmail]
	if !ok || current.ID != user.ID {
		return ErrUserNotFound
	}

	if user.Email != previousEmail {
		if _, taken := s.byEmail[user.Email]; taken {
			return ErrEmailTaken
		}
		delete(s.byEmail, previousEmail)
	}

	now := s.now()
	user.UpdatedAt = &now
	s.byEmail[user.Email] = user.Clone()
	s.byID[user.ID] = user.Email
	return nil
}

// Len returns the number of records, deleted ones included
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

// MemoryGrantStore keeps grants in process. Mostly useful in tests.
type MemoryGrantStore struct {
	mu     sync.Mutex
	grants map[Grant]struct{}
}

var _ GrantStore = (*MemoryGrantStore)(nil)

// NewMemoryGrantStore returns a store seeded with grants
func NewMemoryGrantStore(grants ...Grant) *MemoryGrantStore {
	s := &MemoryGrantStore{grants: make(map[Grant]struct{}, len(grants))}
	for _, g := range grants {
		s.grants[g] = struct{}{}
	}
	return s
}

func (s *MemoryGrantStore) LoadGrants(context.Context) ([]Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Grant, 0, len(s.grants))
	for g := range s.grants {
		out = append(out, g)
	}
	slices.SortFunc(out, compareGrants)
	return out, nil
}

func (s *MemoryGrantStore) SaveGrant(_ context.Context, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grant] = struct{}{}
	return nil
}

func (s *MemoryGrantStore) DeleteGrant(_ context.Context, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grant)
	return nil
}
