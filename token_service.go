package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTokenTTL is the lifetime of access tokens
	DefaultAccessTokenTTL = 15 * time.Minute
	// DefaultRefreshTokenTTL is the lifetime of refresh tokens
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	// SigningMethodHS256 is the only supported signing algorithm
	SigningMethodHS256 = "HS256"
)

// TokenService is the token codec. It holds no state besides its
// configuration so it is safe for concurrent use.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	logger     Logger
}

// TokenOption customizes a TokenService
type TokenOption func(*TokenService)

// WithIssuer sets the iss claim and requires it on parse
func WithIssuer(issuer string) TokenOption {
	return func(ts *TokenService) {
		ts.issuer = issuer
	}
}

// WithAudience sets the aud claim and requires it on parse
func WithAudience(audience ...string) TokenOption {
	return func(ts *TokenService) {
		if len(audience) == 0 {
			ts.audience = nil
			return
		}
		ts.audience = append(jwt.ClaimStrings(nil), audience...)
	}
}

// WithAccessTokenTTL overrides the access token lifetime
func WithAccessTokenTTL(ttl time.Duration) TokenOption {
	return func(ts *TokenService) {
		if ttl > 0 {
			ts.accessTTL = ttl
		}
	}
}

// WithRefreshTokenTTL overrides the refresh token lifetime
func WithRefreshTokenTTL(ttl time.Duration) TokenOption {
	return func(ts *TokenService) {
		if ttl > 0 {
			ts.refreshTTL = ttl
		}
	}
}

// WithClock injects the time source used for issuance and expiry checks
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenOption {
	return func(ts *TokenService) {
		ts.logger = normalizeLogger(logger)
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, opts ...TokenOption) *TokenService {
	ts := &TokenService{
		signingKey: append([]byte(nil), signingKey...),
		accessTTL:  DefaultAccessTokenTTL,
		refreshTTL: DefaultRefreshTokenTTL,
		now:        time.Now,
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}
	return ts
}

// NewTokenServiceFromConfig builds a TokenService from Config
func NewTokenServiceFromConfig(cfg Config, opts ...TokenOption) (*TokenService, error) {
	if cfg == nil {
		return nil, goerrors.New("token config is required", goerrors.CategoryBadInput)
	}

	if method := cfg.GetSigningMethod(); method != "" && method != SigningMethodHS256 {
		return nil, goerrors.New("unsupported signing method", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"method": method})
	}

	if cfg.GetSigningKey() == "" {
		return nil, goerrors.New("signing key is required", goerrors.CategoryBadInput)
	}

	base := []TokenOption{
		WithIssuer(cfg.GetIssuer()),
		WithAudience(cfg.GetAudience()...),
		WithAccessTokenTTL(cfg.GetAccessTokenTTL()),
		WithRefreshTokenTTL(cfg.GetRefreshTokenTTL()),
	}

	return NewTokenService([]byte(cfg.GetSigningKey()), append(base, opts...)...), nil
}

// TTL returns the lifetime of tokens of the given type
func (ts *TokenService) TTL(tokenType TokenType) (time.Duration, error) {
	switch tokenType {
	case TokenTypeAccess:
		return ts.accessTTL, nil
	case TokenTypeRefresh:
		return ts.refreshTTL, nil
	default:
		return 0, ErrInvalidTokenType
	}
}

// Issue signs a token of tokenType for the given identity
func (ts *TokenService) Issue(identity IdentityClaims, tokenType TokenType) (string, error) {
	ttl, err := ts.TTL(tokenType)
	if err != nil {
		ts.logger.Error("TokenService issue rejected token type", "type", tokenType)
		return "", err
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:       strconv.FormatInt(identity.UserID, 10),
		Email:     identity.Email,
		UserRole:  identity.Role,
		TokenType: tokenType,
	}

	if len(ts.audience) > 0 {
		claims.Audience = append(jwt.ClaimStrings(nil), ts.audience...)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", internalError(err, "failed to sign JWT")
	}

	return signed, nil
}

// Parse verifies signature, structure and expiry and returns the claims.
// Failures are ErrTokenMalformed or ErrTokenExpired; both belong to the
// untrusted token family.
func (ts *TokenService) Parse(tokenString string) (*JWTClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{SigningMethodHS256}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			ts.logger.Debug("TokenService parse rejected expired token")
			return nil, ErrTokenExpired
		}
		ts.logger.Debug("TokenService parse rejected token", "error", err)
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Debug("TokenService parse could not decode claims")
		return nil, ErrTokenMalformed
	}

	if claims.Email == "" || !claims.TokenType.IsValid() {
		ts.logger.Debug("TokenService parse found incomplete claims", "type", claims.TokenType)
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// ParseAs parses the token and requires it to be of the expected type
func (ts *TokenService) ParseAs(tokenString string, expected TokenType) (*JWTClaims, error) {
	claims, err := ts.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expected {
		ts.logger.Debug("TokenService parse token type mismatch", "expected", expected, "got", claims.TokenType)
		return nil, ErrTokenWrongType
	}

	return claims, nil
}
