package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags a token with the operations allowed to consume it
type TokenType string

const (
	// TokenTypeAccess short lived token presented to protected operations
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh long lived token only exchanged for new access tokens
	TokenTypeRefresh TokenType = "refresh"
)

// IsValid reports whether t is a known token type
func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypeAccess, TokenTypeRefresh:
		return true
	default:
		return false
	}
}

// IdentityClaims is the identity part of a token, before the codec adds
// type and timing fields.
type IdentityClaims struct {
	UserID int64
	Email  string
	Role   Role
}

// ClaimsFromUser extracts the identity claims of a user
func ClaimsFromUser(u *User) IdentityClaims {
	if u == nil {
		return IdentityClaims{}
	}
	return IdentityClaims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// JWTClaims is the signed claim set
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string    `json:"uid,omitempty"`
	Email     string    `json:"email"`
	UserRole  Role      `json:"role"`
	TokenType TokenType `json:"token_type"`
}

// Identity returns the identity claims carried by the token
func (c *JWTClaims) Identity() IdentityClaims {
	id, _ := strconv.ParseInt(c.UID, 10, 64)
	return IdentityClaims{
		UserID: id,
		Email:  c.Email,
		Role:   c.UserRole,
	}
}

// Role returns the role at issuance time
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
