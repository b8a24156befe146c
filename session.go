package auth

import (
	"context"
	"errors"
	"sync"
)

// TokenPair is returned by logins that also want a refresh token
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// SessionAuthority issues tokens on login and turns presented tokens back
// into live users. It keeps no session state: every resolution re-reads the
// account so deleted users are cut off before their tokens expire.
type SessionAuthority struct {
	accounts AccountFinder
	hasher   PasswordAuthenticator
	tokens   *TokenService
	logger   Logger

	dummyOnce sync.Once
	dummyHash string
}

var _ PrincipalResolver = (*SessionAuthority)(nil)

// NewSessionAuthority wires the authority. A nil hasher defaults to bcrypt.
func NewSessionAuthority(accounts AccountFinder, hasher PasswordAuthenticator, tokens *TokenService) *SessionAuthority {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &SessionAuthority{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (s *SessionAuthority) WithLogger(logger Logger) *SessionAuthority {
	s.logger = normalizeLogger(logger)
	return s
}

// Login verifies credentials and returns an access token
func (s *SessionAuthority) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(ClaimsFromUser(user), TokenTypeAccess)
}

// LoginWithRefresh verifies credentials and returns an access and a refresh token
func (s *SessionAuthority) LoginWithRefresh(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return TokenPair{}, err
	}

	claims := ClaimsFromUser(user)

	access, err := s.tokens.Issue(claims, TokenTypeAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.tokens.Issue(claims, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *SessionAuthority) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.resolve(ctx, refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(ClaimsFromUser(user), TokenTypeAccess)
}

// ResolveCurrentPrincipal returns the live user behind an access token
func (s *SessionAuthority) ResolveCurrentPrincipal(ctx context.Context, accessToken string) (*User, error) {
	return s.resolve(ctx, accessToken, TokenTypeAccess)
}

// Logout is a no-op: tokens are stateless and must be discarded by the client
func (s *SessionAuthority) Logout(context.Context) error {
	return nil
}

func (s *SessionAuthority) authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.accounts.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, internalError(err, "failed to retrieve user during verification")
		}
		// pay for a comparison anyway so unknown emails are not faster
		_ = s.hasher.ComparePasswordAndHash(password, s.dummy())
		s.logger.Debug("login rejected", "reason", "unknown email")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		_ = s.hasher.ComparePasswordAndHash(password, s.dummy())
		s.logger.Debug("login rejected", "reason", "inactive account", "id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			s.logger.Error("login password comparison failed", "id", user.ID, "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *SessionAuthority) resolve(ctx context.Context, raw string, expected TokenType) (*User, error) {
	claims, err := s.tokens.ParseAs(raw, expected)
	if err != nil {
		s.logger.Debug("token rejected", "expected", expected, "error", err)
		return nil, ErrUntrustedToken
	}

	user, err := s.accounts.FindByEmail(ctx, NormalizeEmail(claims.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, internalError(err, "failed to resolve session user")
	}

	// the email may have been released and registered again by another account
	if claims.Identity().UserID != user.ID {
		s.logger.Debug("token rejected", "reason", "identity mismatch", "id", user.ID)
		return nil, ErrInvalidSession
	}

	if !user.IsActive() {
		s.logger.Debug("token rejected", "reason", "inactive account", "id", user.ID)
		return nil, ErrInvalidSession
	}

	return user, nil
}

func (s *SessionAuthority) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.HashPassword("timing-equalizer")
		if err != nil {
			s.logger.Warn("could not prepare dummy hash", "error", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
