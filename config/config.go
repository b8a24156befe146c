// Package config loads the YAML configuration of the auth core.
//
// Values are read from a YAML file on top of defaults, then environment
// variables prefixed with AUTH_ override individual keys. The signing key is
// the one setting without a default and should come from AUTH_SIGNING_KEY in
// production.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	auth "github.com/goliatone/go-auth-rbac"
	"gopkg.in/yaml.v3"
)

// MinSigningKeyLength is the shortest HS256 secret accepted
const MinSigningKeyLength = 32

// Config is the root configuration
type Config struct {
	Token    TokenConfig    `yaml:"token"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seed     SeedConfig     `yaml:"seed"`

	// environment values that could not be applied, reported by Validate
	envErrs []string
}

// TokenConfig configures the token codec
type TokenConfig struct {
	SigningKey      string        `yaml:"signing_key"`
	SigningMethod   string        `yaml:"signing_method"`
	Issuer          string        `yaml:"issuer"`
	Audience        []string      `yaml:"audience"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

// DatabaseConfig selects the store. An empty DSN keeps everything in memory.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SeedConfig lists the accounts created on init and whether the default
// grant set is installed.
type SeedConfig struct {
	Accounts      []auth.SeedAccount `yaml:"accounts"`
	DefaultGrants bool               `yaml:"default_grants"`
}

var _ auth.Config = (*Config)(nil)

// Load reads path, applies environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a configuration from defaults and environment only
func FromEnv() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the defaults without reading anything
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Token: TokenConfig{
			SigningMethod:   auth.SigningMethodHS256,
			Issuer:          "go-auth-rbac",
			AccessTokenTTL:  auth.DefaultAccessTokenTTL,
			RefreshTokenTTL: auth.DefaultRefreshTokenTTL,
		},
		Database: DatabaseConfig{
			DSN: "file:auth.db?cache=shared",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Seed: SeedConfig{
			DefaultGrants: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AUTH_SIGNING_KEY"); v != "" {
		cfg.Token.SigningKey = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		cfg.Token.Issuer = v
	}
	if v := os.Getenv("AUTH_AUDIENCE"); v != "" {
		cfg.Token.Audience = splitList(v)
	}
	if v := os.Getenv("AUTH_ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Token.AccessTokenTTL = d
		} else {
			cfg.envErrs = append(cfg.envErrs, fmt.Sprintf("AUTH_ACCESS_TOKEN_TTL %q is not a duration (e.g. 15m)", v))
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Token.RefreshTokenTTL = d
		} else {
			cfg.envErrs = append(cfg.envErrs, fmt.Sprintf("AUTH_REFRESH_TOKEN_TTL %q is not a duration (e.g. 168h)", v))
		}
	}
	if v := os.Getenv("AUTH_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("AUTH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration and reports every problem found
func (c *Config) Validate() error {
	errs := append([]string(nil), c.envErrs...)

	if c.Token.SigningKey == "" {
		errs = append(errs, "token.signing_key is required (set AUTH_SIGNING_KEY environment variable)")
	} else if len(c.Token.SigningKey) < MinSigningKeyLength {
		errs = append(errs, fmt.Sprintf("token.signing_key must be at least %d characters", MinSigningKeyLength))
	}

	if c.Token.SigningMethod != auth.SigningMethodHS256 {
		errs = append(errs, "token.signing_method must be HS256")
	}

	if c.Token.AccessTokenTTL <= 0 {
		errs = append(errs, "token.access_token_ttl must be positive")
	}

	if c.Token.RefreshTokenTTL <= 0 {
		errs = append(errs, "token.refresh_token_ttl must be positive")
	} else if c.Token.RefreshTokenTTL < c.Token.AccessTokenTTL {
		errs = append(errs, "token.refresh_token_ttl must not be shorter than token.access_token_ttl")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "logging.level must be one of debug, info, warn, error")
	}

	domain := auth.DefaultDomain()
	for i, acc := range c.Seed.Accounts {
		if acc.Email == "" || acc.Password == "" {
			errs = append(errs, fmt.Sprintf("seed.accounts[%d] needs an email and a password", i))
		}
		if acc.Role != "" && !domain.HasRole(acc.Role) {
			errs = append(errs, fmt.Sprintf("seed.accounts[%d].role %q is unknown", i, acc.Role))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SeedOptions converts the seed section for auth.Seed
func (c *Config) SeedOptions() auth.SeedOptions {
	opts := auth.SeedOptions{Accounts: c.Seed.Accounts}
	if c.Seed.DefaultGrants {
		opts.Grants = auth.DefaultGrants()
	}
	return opts
}

func (c *Config) GetSigningKey() string {
	return c.Token.SigningKey
}

func (c *Config) GetSigningMethod() string {
	return c.Token.SigningMethod
}

func (c *Config) GetIssuer() string {
	return c.Token.Issuer
}

func (c *Config) GetAudience() []string {
	return c.Token.Audience
}

func (c *Config) GetAccessTokenTTL() time.Duration {
	return c.Token.AccessTokenTTL
}

func (c *Config) GetRefreshTokenTTL() time.Duration {
	return c.Token.RefreshTokenTTL
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
