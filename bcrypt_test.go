package auth_test

import (
	"errors"
	"testing"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  auth.ErrNoEmptyString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.HashPassword(tt.password)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, hasher.ComparePasswordAndHash(tt.password, hash))
		})
	}
}

func TestBcryptHasher_ComparePasswordAndHash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	password := "testPassword123!"
	hash, err := hasher.HashPassword(password)
	require.NoError(t, err)

	t.Run("Matching password", func(t *testing.T) {
		assert.NoError(t, hasher.ComparePasswordAndHash(password, hash))
	})

	t.Run("Wrong password", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("wrongPassword", hash)
		assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	})

	t.Run("Invalid hash", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash(password, "not-a-hash")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, auth.ErrInvalidCredentials))
	})
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	hasher := auth.NewBcryptHasher(0)
	assert.GreaterOrEqual(t, hasher.Cost, bcrypt.DefaultCost)
}
