package auth

import (
	"context"
	"slices"
)

// Service is the transport agnostic operation surface. A transport binds
// each method to a route and maps returned errors with StatusCode.
type Service struct {
	accounts *AccountRegistry
	sessions *SessionAuthority
	engine   *PermissionEngine
	gate     *AccessGate
	logger   Logger
}

// NewService composes the core components. The session authority resolves
// users through accounts and the gate checks grants held by engine.
func NewService(accounts *AccountRegistry, tokens *TokenService, engine *PermissionEngine) *Service {
	sessions := NewSessionAuthority(accounts, accounts.Hasher(), tokens)
	return &Service{
		accounts: accounts,
		sessions: sessions,
		engine:   engine,
		gate:     NewAccessGate(sessions, engine),
		logger:   defLogger{},
	}
}

// WithLogger sets the logger on the service and every component it owns
func (s *Service) WithLogger(logger Logger) *Service {
	s.logger = normalizeLogger(logger)
	s.sessions.WithLogger(s.logger)
	s.gate.WithLogger(s.logger)
	return s
}

// Accounts returns the account registry
func (s *Service) Accounts() *AccountRegistry {
	return s.accounts
}

// Sessions returns the session authority
func (s *Service) Sessions() *SessionAuthority {
	return s.sessions
}

// Permissions returns the permission engine
func (s *Service) Permissions() *PermissionEngine {
	return s.engine
}

func (s *Service) Gate() *AccessGate {
	return s.gate
}

// Register creates a USER account
func (s *Service) Register(ctx context.Context, payload RegisterPayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	return s.accounts.Register(ctx, payload.Email, payload.DisplayName, payload.Password, payload.PasswordConfirm)
}

// Login returns an access token
func (s *Service) Login(ctx context.Context, payload LoginPayload) (string, error) {
	if err := payload.Validate(); err != nil {
		// an empty field can only ever be wrong credentials
		return "", ErrInvalidCredentials
	}
	return s.sessions.Login(ctx, payload.Email, payload.Password)
}

// LoginWithRefresh returns an access and a refresh token
func (s *Service) LoginWithRefresh(ctx context.Context, payload LoginPayload) (TokenPair, error) {
	if err := payload.Validate(); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.sessions.LoginWithRefresh(ctx, payload.Email, payload.Password)
}

// Refresh exchanges a refresh token for an access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.sessions.Refresh(ctx, refreshToken)
}

// Logout requires a valid session and otherwise does nothing
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if _, err := s.sessions.ResolveCurrentPrincipal(ctx, accessToken); err != nil {
		return err
	}
	return s.sessions.Logout(ctx)
}

// Me returns the user behind accessToken
func (s *Service) Me(ctx context.Context, accessToken string) (*User, error) {
	return s.sessions.ResolveCurrentPrincipal(ctx, accessToken)
}

// UpdateMe applies a partial profile update to the user behind accessToken
func (s *Service) UpdateMe(ctx context.Context, accessToken string, payload ProfilePayload) (*User, error) {
	user, err := s.sessions.ResolveCurrentPrincipal(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if err := payload.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	upd := payload.Update()
	if upd.IsEmpty() {
		return user, nil
	}

	return s.accounts.UpdateProfile(ctx, user, upd)
}

// DeleteMe soft deletes the user behind accessToken
func (s *Service) DeleteMe(ctx context.Context, accessToken string) error {
	user, err := s.sessions.ResolveCurrentPrincipal(ctx, accessToken)
	if err != nil {
		return err
	}
	return s.accounts.SoftDelete(ctx, user)
}

// ListPermissions returns every grant. Requires an ADMIN holding PERMISSIONS:READ.
func (s *Service) ListPermissions(ctx context.Context, accessToken string) ([]Grant, error) {
	if _, err := s.gate.AuthorizeRole(ctx, accessToken, RoleAdmin, ResourcePermissions, ActionRead); err != nil {
		return nil, err
	}
	return slices.Collect(s.engine.List()), nil
}

// AddPermission grants a triple. Requires an ADMIN holding PERMISSIONS:CREATE.
func (s *Service) AddPermission(ctx context.Context, accessToken string, payload PermissionPayload) (GrantResult, error) {
	admin, err := s.gate.AuthorizeRole(ctx, accessToken, RoleAdmin, ResourcePermissions, ActionCreate)
	if err != nil {
		return 0, err
	}

	grant, err := s.parseGrant(payload)
	if err != nil {
		return 0, err
	}

	result, err := s.engine.Grant(ctx, grant)
	if err != nil {
		return 0, err
	}

	s.logger.Info("permission added", "by", admin.ID, "grant", grant.String(), "result", result.String())
	return result, nil
}

// DeletePermission revokes a triple. Requires an ADMIN holding PERMISSIONS:DELETE.
func (s *Service) DeletePermission(ctx context.Context, accessToken string, payload PermissionPayload) error {
	admin, err := s.gate.AuthorizeRole(ctx, accessToken, RoleAdmin, ResourcePermissions, ActionDelete)
	if err != nil {
		return err
	}

	grant, err := s.parseGrant(payload)
	if err != nil {
		return err
	}

	if err := s.engine.Revoke(ctx, grant); err != nil {
		return err
	}

	s.logger.Info("permission removed", "by", admin.ID, "grant", grant.String())
	return nil
}

// Authorize is the check protected business operations run first
func (s *Service) Authorize(ctx context.Context, accessToken string, resource Resource, action Action) (*User, error) {
	return s.gate.Authorize(ctx, accessToken, resource, action)
}

func (s *Service) parseGrant(payload PermissionPayload) (Grant, error) {
	if err := payload.Validate(); err != nil {
		return Grant{}, ErrInvalidGrantDomain
	}
	return payload.Grant(s.engine.Domain())
}
