package auth

import (
	"context"
	"errors"
)

// SeedAccount is an account created by Seed
type SeedAccount struct {
	Email       string `json:"email" yaml:"email"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Password    string `json:"password" yaml:"password"`
	Role        Role   `json:"role" yaml:"role"`
}

// SeedOptions lists what Seed provisions
type SeedOptions struct {
	Accounts []SeedAccount
	Grants   []Grant
}

// SeedReport summarizes what a Seed call changed
type SeedReport struct {
	AccountsCreated int
	AccountsSkipped int
	GrantsCreated   int
	GrantsExisting  int
}

// DefaultSeedOptions returns the default grant set and no accounts
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Grants: DefaultGrants()}
}

// Seed provisions accounts and grants. It is meant to run once at process
// start but can run again safely: existing emails are skipped and present
// grants are left alone.
func Seed(ctx context.Context, registry *AccountRegistry, engine *PermissionEngine, opts SeedOptions) (SeedReport, error) {
	var report SeedReport

	for _, acc := range opts.Accounts {
		role := acc.Role
		if role == "" {
			role = RoleUser
		}

		if engine != nil && !engine.Domain().HasRole(role) {
			return report, ErrInvalidGrantDomain
		}

		_, err := registry.CreateAccount(ctx, acc.Email, acc.DisplayName, acc.Password, role)
		switch {
		case err == nil:
			report.AccountsCreated++
		case errors.Is(err, ErrEmailTaken):
			report.AccountsSkipped++
		default:
			return report, err
		}
	}

	if engine == nil {
		return report, nil
	}

	for _, g := range opts.Grants {
		result, err := engine.Grant(ctx, g)
		if err != nil {
			return report, err
		}
		if result == GrantCreated {
			report.GrantsCreated++
		} else {
			report.GrantsExisting++
		}
	}

	return report, nil
}
