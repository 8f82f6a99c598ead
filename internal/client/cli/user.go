package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *App) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage your account",
	}
	cmd.AddCommand(a.userUpdateCmd(), a.userDeleteCmd())
	return cmd
}

func (a *App) userUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <new-email>",
		Short: "Change the account email and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession()
			if err != nil {
				return err
			}
			user, err := a.api.GetUser(cmd.Context(), sess.Email)
			if err != nil {
				return err
			}
			password, err := getPassword(cmd.OutOrStdout(), "New password: ")
			if err != nil {
				return err
			}
			updated, err := a.api.UpdateUser(cmd.Context(), user.ID, args[0], password)
			if err != nil {
				return err
			}
			// the cached token carries the old email, force a fresh login
			if err := a.store.Clear(); err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "account updated to", updated.Email)
			cmd.Println("  log in again with the new credentials")
			return nil
		},
	}
}

func (a *App) userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the account and every secret in its vault",
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
			deleted, err := a.api.DeleteUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "account deleted,", deleted, "secrets removed")
			return nil
		},
	}
}
