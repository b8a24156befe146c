package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// Manager owns the database handle and the repositories built on it
type Manager struct {
	db     *bun.DB
	users  *UserRepository
	grants *GrantRepository
}

// NewManager builds the repositories over db
func NewManager(db *bun.DB) *Manager {
	return &Manager{
		db:     db,
		users:  NewUserRepository(db),
		grants: NewGrantRepository(db),
	}
}

// Open connects to dsn and creates the schema
func Open(ctx context.Context, dsn string) (*Manager, error) {
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		return nil, err
	}

	m := NewManager(db)
	err = m.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return CreateSchema(ctx, tx)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return m, nil
}

func (m *Manager) Validate() error {
	if m.db == nil {
		return errors.New("repository db should be initialized")
	}

	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.grants == nil {
		return errors.New("repository grants should be initialized")
	}

	return nil
}

func (m *Manager) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *Manager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *Manager) DB() *bun.DB {
	return m.db
}

func (m *Manager) Users() *UserRepository {
	return m.users
}

func (m *Manager) Grants() *GrantRepository {
	return m.grants
}

func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
