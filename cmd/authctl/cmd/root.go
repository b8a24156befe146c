package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-auth-rbac/config"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	databaseDSN string
	logLevel    string
)

type appKey struct{}

var (
	// openApp builds the app for an invocation; tests swap it to observe the app
	openApp = newApp
	// active is the app opened by the current invocation, closed by run
	active *app
)

var rootCmd = &cobra.Command{
	Use:   "authctl",
	Short: "authctl - accounts, sessions and permissions",
	Long: `authctl drives the auth core against a local database. Use it to seed
accounts and grants, register and log in users, and manage permissions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cfg, os.Stderr)
		if err != nil {
			return err
		}
		active = a

		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// run executes the root command and closes the app whether or not the
// command failed. Cobra skips post-run hooks after a RunE error.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)

	if active != nil {
		if cerr := active.Close(); cerr != nil && err == nil {
			err = cerr
		}
		active = nil
	}

	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("AUTH_CONFIG"), "path to the YAML config (also set via AUTH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&databaseDSN, "db", "", "database DSN, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(updateMeCmd)
	rootCmd.AddCommand(deleteMeCmd)
	rootCmd.AddCommand(permissionsCmd)
	rootCmd.AddCommand(checkCmd)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	if databaseDSN != "" {
		cfg.Database.DSN = databaseDSN
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	return cfg, nil
}

func appFrom(cmd *cobra.Command) *app {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		panic("authctl: app missing from command context")
	}
	return a
}
