package cmd

import (
	auth "github.com/goliatone/go-auth-rbac"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Manage the role, resource, action grants",
	Long:  `Admin commands for the grant set. Every subcommand needs an ADMIN access token.`,
}

var permissionsListCmd = &cobra.Command{
	Use:   "list [access-token]",
	Short: "List every grant",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, args)
		if err != nil {
			return err
		}

		grants, err := appFrom(cmd).service.ListPermissions(cmd.Context(), token)
		if err != nil {
			return describe(err)
		}
		return renderGrants(grants)
	},
}

var permissionsGrantCmd = &cobra.Command{
	Use:   "grant <role> <resource> <action>",
	Short: "Add a grant",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, nil)
		if err != nil {
			return err
		}

		result, err := appFrom(cmd).service.AddPermission(cmd.Context(), token, permissionPayload(args))
		if err != nil {
			return describe(err)
		}

		if result == auth.GrantExists {
			pterm.Info.Printf("Permission %s:%s:%s already exists.\n", args[0], args[1], args[2])
			return nil
		}
		pterm.Success.Printf("Permission %s:%s:%s granted.\n", args[0], args[1], args[2])
		return nil
	},
}

var permissionsRevokeCmd = &cobra.Command{
	Use:   "revoke <role> <resource> <action>",
	Short: "Remove a grant",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, nil)
		if err != nil {
			return err
		}

		if err := appFrom(cmd).service.DeletePermission(cmd.Context(), token, permissionPayload(args)); err != nil {
			return describe(err)
		}
		pterm.Success.Printf("Permission %s:%s:%s revoked.\n", args[0], args[1], args[2])
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <resource> <action>",
	Short: "Check whether an access token may perform action on resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, nil)
		if err != nil {
			return err
		}

		user, err := appFrom(cmd).service.Authorize(cmd.Context(), token, auth.Resource(args[0]), auth.Action(args[1]))
		if err != nil {
			return describe(err)
		}
		pterm.Success.Printf("%s (%s) may %s %s\n", user.Email, user.Role, args[1], args[0])
		return nil
	},
}

func permissionPayload(args []string) auth.PermissionPayload {
	return auth.PermissionPayload{Role: args[0], Resource: args[1], Action: args[2]}
}

func init() {
	permissionsCmd.AddCommand(permissionsListCmd)
	permissionsCmd.AddCommand(permissionsGrantCmd)
	permissionsCmd.AddCommand(permissionsRevokeCmd)

	for _, c := range []*cobra.Command{permissionsListCmd, permissionsGrantCmd, permissionsRevokeCmd, checkCmd} {
		addTokenFlag(c)
	}
}
