package auth_test

import (
	"sync"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

var testSigningKey = []byte("test-signing-key-with-enough-bytes!!")

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock    *testClock
	store    *auth.MemoryUserStore
	accounts *auth.AccountRegistry
	tokens   *auth.TokenService
	engine   *auth.PermissionEngine
	sessions *auth.SessionAuthority
	gate     *auth.AccessGate
	service  *auth.Service
}

func newFixture(t *testing.T, grants ...auth.Grant) *fixture {
	t.Helper()

	clock := newTestClock()
	store := auth.NewMemoryUserStore()
	accounts := auth.NewAccountRegistry(store, auth.NewBcryptHasher(bcrypt.MinCost)).WithLogger(nopLogger{})
	tokens := auth.NewTokenService(testSigningKey,
		auth.WithIssuer("tests"),
		auth.WithClock(clock.Now),
		auth.WithTokenLogger(nopLogger{}),
	)
	engine := auth.NewPermissionEngine(grants, auth.WithPermissionLogger(nopLogger{}))
	service := auth.NewService(accounts, tokens, engine).WithLogger(nopLogger{})

	return &fixture{
		clock:    clock,
		store:    store,
		accounts: accounts,
		tokens:   tokens,
		engine:   engine,
		sessions: service.Sessions(),
		gate:     service.Gate(),
		service:  service,
	}
}

func ptr[T any](v T) *T {
	return &v
}
