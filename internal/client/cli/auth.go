package cli

import (
	"time"

	"github.com/dmitrijs2005/locksmith/internal/client/session"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *App) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := getPassword(cmd.OutOrStdout(), "Choose a password: ")
			if err != nil {
				return err
			}
			user, err := a.api.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "account created for", user.Email)
			cmd.Println("  secrets quota:", user.SecretQuota, " request quota:", user.RequestQuota)
			return nil
		},
	}
}

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and cache the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := getPassword(cmd.OutOrStdout(), "Enter password: ")
			if err != nil {
				return err
			}
			token, err := a.api.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			err = a.store.Save(&session.Session{
				Email:     args[0],
				Token:     token,
				CreatedAt: time.Now(),
			})
			if err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "logged in as", args[0])
			return nil
		},
	}
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			// revoke first so a failure leaves the token usable and cached
			if err := a.api.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "logged out")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession()
			if err != nil {
				return err
			}
			user, err := a.api.GetUser(cmd.Context(), sess.Email)
			if err != nil {
				return err
			}
			plan := "free"
			if user.HasPaid {
				plan = "paid"
			}
			cmd.Println(user.Email)
			cmd.Println("  plan:", plan)
			cmd.Println("  secret quota left:", user.SecretQuota)
			cmd.Println("  request quota left:", user.RequestQuota)
			return nil
		},
	}
}
