package cmd

import (
	auth "github.com/goliatone/go-auth-rbac"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the schema and seed accounts and grants",
	Long: `init creates the tables if missing, then provisions the accounts listed
under seed.accounts and, when seed.default_grants is set, the default grant
set. Running it again skips existing accounts and grants.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		report, err := auth.Seed(cmd.Context(),
			a.service.Accounts(),
			a.service.Permissions(),
			a.cfg.SeedOptions(),
		)
		if err != nil {
			return describe(err)
		}

		pterm.DefaultSection.Println("Seed")
		_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
			{"KIND", "CREATED", "EXISTING"},
			{"accounts", itoa(report.AccountsCreated), itoa(report.AccountsSkipped)},
			{"grants", itoa(report.GrantsCreated), itoa(report.GrantsExisting)},
		}).Render()

		pterm.Success.Println("Database initialized.")
		return nil
	},
}
