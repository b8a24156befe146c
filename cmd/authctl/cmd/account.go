package cmd

import (
	"fmt"

	auth "github.com/goliatone/go-auth-rbac"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <email> <display-name>",
	Short: "Register a new USER account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		confirm, _ := cmd.Flags().GetString("confirm")
		if confirm == "" {
			confirm = password
		}

		user, err := appFrom(cmd).service.Register(cmd.Context(), auth.RegisterPayload{
			Email:           args[0],
			DisplayName:     args[1],
			Password:        password,
			PasswordConfirm: confirm,
		})
		if err != nil {
			return describe(err)
		}

		pterm.Success.Printf("Registered %s with id %d\n", user.Email, user.ID)
		return renderUser(user)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		withRefresh, _ := cmd.Flags().GetBool("refresh")

		payload := auth.LoginPayload{Email: args[0], Password: password}
		service := appFrom(cmd).service

		if withRefresh {
			pair, err := service.LoginWithRefresh(cmd.Context(), payload)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("access_token=%s\n", pair.AccessToken)
			fmt.Printf("refresh_token=%s\n", pair.RefreshToken)
			return nil
		}

		token, err := service.Login(cmd.Context(), payload)
		if err != nil {
			return describe(err)
		}
		fmt.Println(token)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <refresh-token>",
	Short: "Exchange a refresh token for a new access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := appFrom(cmd).service.Refresh(cmd.Context(), args[0])
		if err != nil {
			return describe(err)
		}
		fmt.Println(token)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout [access-token]",
	Short: "Validate the session and log out",
	Long:  `Tokens are stateless. logout only checks the token is still valid; discard it afterwards.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, args)
		if err != nil {
			return err
		}
		if err := appFrom(cmd).service.Logout(cmd.Context(), token); err != nil {
			return describe(err)
		}
		pterm.Success.Println("Logged out. Discard the token.")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me [access-token]",
	Short: "Show the account behind an access token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, args)
		if err != nil {
			return err
		}
		user, err := appFrom(cmd).service.Me(cmd.Context(), token)
		if err != nil {
			return describe(err)
		}
		return renderUser(user)
	},
}

var updateMeCmd = &cobra.Command{
	Use:   "update-me [access-token]",
	Short: "Update display name, email or password of the current account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, args)
		if err != nil {
			return err
		}

		var payload auth.ProfilePayload
		if cmd.Flags().Changed("display-name") {
			v, _ := cmd.Flags().GetString("display-name")
			payload.DisplayName = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			payload.Email = &v
		}
		if cmd.Flags().Changed("new-password") {
			v, _ := cmd.Flags().GetString("new-password")
			payload.NewPassword = &v
		}

		user, err := appFrom(cmd).service.UpdateMe(cmd.Context(), token, payload)
		if err != nil {
			return describe(err)
		}
		pterm.Success.Println("Profile updated.")
		return renderUser(user)
	},
}

var deleteMeCmd = &cobra.Command{
	Use:   "delete-me [access-token]",
	Short: "Soft delete the current account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := tokenArg(cmd, args)
		if err != nil {
			return err
		}
		if err := appFrom(cmd).service.DeleteMe(cmd.Context(), token); err != nil {
			return describe(err)
		}
		pterm.Success.Println("Account deleted.")
		return nil
	},
}

func init() {
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("confirm", "", "password confirmation, defaults to --password")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().String("password", "", "account password")
	loginCmd.Flags().Bool("refresh", false, "also print a refresh token")
	_ = loginCmd.MarkFlagRequired("password")

	updateMeCmd.Flags().String("display-name", "", "new display name")
	updateMeCmd.Flags().String("email", "", "new email")
	updateMeCmd.Flags().String("new-password", "", "new password")

	for _, c := range []*cobra.Command{logoutCmd, meCmd, updateMeCmd, deleteMeCmd} {
		addTokenFlag(c)
	}
}
