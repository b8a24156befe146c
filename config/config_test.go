package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-signing-key-at-least-32-characters"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
token:
  signing_key: "`+testKey+`"
  issuer: "tests"
  audience: ["api"]
  access_token_ttl: 5m
  refresh_token_ttl: 24h
database:
  dsn: ":memory:"
logging:
  level: debug
seed:
  default_grants: true
  accounts:
    - email: admin@app.com
      display_name: Admin
      password: adminpass
      role: ADMIN
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, testKey, cfg.GetSigningKey())
	assert.Equal(t, auth.SigningMethodHS256, cfg.GetSigningMethod())
	assert.Equal(t, "tests", cfg.GetIssuer())
	assert.Equal(t, []string{"api"}, cfg.GetAudience())
	assert.Equal(t, 5*time.Minute, cfg.GetAccessTokenTTL())
	assert.Equal(t, 24*time.Hour, cfg.GetRefreshTokenTTL())
	assert.Equal(t, ":memory:", cfg.Database.DSN)

	opts := cfg.SeedOptions()
	require.Len(t, opts.Accounts, 1)
	assert.Equal(t, auth.RoleAdmin, opts.Accounts[0].Role)
	assert.ElementsMatch(t, auth.DefaultGrants(), opts.Grants)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
token:
  signing_key: "`+testKey+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, auth.DefaultAccessTokenTTL, cfg.GetAccessTokenTTL())
	assert.Equal(t, auth.DefaultRefreshTokenTTL, cfg.GetRefreshTokenTTL())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Seed.DefaultGrants)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", testKey)
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "1m")
	t.Setenv("AUTH_AUDIENCE", "web, cli")
	t.Setenv("AUTH_DATABASE_DSN", ":memory:")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, testKey, cfg.GetSigningKey())
	assert.Equal(t, time.Minute, cfg.GetAccessTokenTTL())
	assert.Equal(t, []string{"web", "cli"}, cfg.GetAudience())
	assert.Equal(t, ":memory:", cfg.Database.DSN)
}

func TestEnvOverridesRejectMalformedTTL(t *testing.T) {
	t.Setenv("AUTH_SIGNING_KEY", testKey)
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "15")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL", "a week")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_ACCESS_TOKEN_TTL")
	assert.Contains(t, err.Error(), "AUTH_REFRESH_TOKEN_TTL")

	path := writeConfig(t, "token:\n  issuer: file\n")
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"15" is not a duration`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing key",
			mutate:  func(c *Config) { c.Token.SigningKey = "" },
			wantErr: "token.signing_key is required",
		},
		{
			name:    "short key",
			mutate:  func(c *Config) { c.Token.SigningKey = "short" },
			wantErr: "at least 32 characters",
		},
		{
			name:    "other algorithm",
			mutate:  func(c *Config) { c.Token.SigningMethod = "RS256" },
			wantErr: "must be HS256",
		},
		{
			name:    "refresh shorter than access",
			mutate:  func(c *Config) { c.Token.RefreshTokenTTL = time.Minute },
			wantErr: "must not be shorter",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name: "unknown seed role",
			mutate: func(c *Config) {
				c.Seed.Accounts = []auth.SeedAccount{{Email: "x@x.com", Password: "p", Role: "ROOT"}}
			},
			wantErr: "is unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Token.SigningKey = testKey
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid", func(t *testing.T) {
		cfg := Default()
		cfg.Token.SigningKey = testKey
		assert.NoError(t, cfg.Validate())
	})
}

func TestTokenServiceFromConfig(t *testing.T) {
	cfg := Default()
	cfg.Token.SigningKey = testKey

	tokens, err := auth.NewTokenServiceFromConfig(cfg)
	require.NoError(t, err)

	raw, err := tokens.Issue(auth.IdentityClaims{UserID: 1, Email: "a@x.com", Role: auth.RoleUser}, auth.TokenTypeAccess)
	require.NoError(t, err)

	claims, err := tokens.ParseAs(raw, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "go-auth-rbac", claims.Issuer)
}
