package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// exitCode maps core errors onto distinct process exit codes
func exitCode(err error) int {
	switch auth.StatusCode(err) {
	case 400:
		return 2
	case 401:
		return 3
	case 403:
		return 4
	case 404:
		return 5
	default:
		return 1
	}
}

func renderUser(u *auth.User) error {
	data := pterm.TableData{
		{"FIELD", "VALUE"},
		{"id", strconv.FormatInt(u.ID, 10)},
		{"email", u.Email},
		{"display_name", u.DisplayName},
		{"role", string(u.Role)},
		{"status", string(u.Status)},
	}
	if u.CreatedAt != nil {
		data = append(data, []string{"created_at", u.CreatedAt.Format(time.RFC3339)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderGrants(grants []auth.Grant) error {
	if len(grants) == 0 {
		pterm.Info.Println("No permissions granted.")
		return nil
	}

	data := pterm.TableData{{"ROLE", "RESOURCE", "ACTION"}}
	for _, g := range grants {
		data = append(data, []string{string(g.Role), string(g.Resource), string(g.Action)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// tokenArg reads the token from the first argument, --token or AUTH_TOKEN
func tokenArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		return v, nil
	}
	if v := os.Getenv("AUTH_TOKEN"); v != "" {
		return v, nil
	}
	return "", errors.New("a token is required (argument, --token or AUTH_TOKEN)")
}

func addTokenFlag(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "access token (also set via AUTH_TOKEN)")
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w (status %d)", err, auth.StatusCode(err))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
