package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *App) secretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage vault secrets",
	}
	cmd.AddCommand(
		a.secretCreateCmd(),
		a.secretGetCmd(),
		a.secretListCmd(),
		a.secretDeleteCmd(),
	)
	return cmd
}

func (a *App) secretCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <key>",
		Short: "Store a new secret under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			value, err := getPassword(cmd.OutOrStdout(), "Secret value: ")
			if err != nil {
				return err
			}
			secret, err := a.api.CreateSecret(cmd.Context(), args[0], value)
			if err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "stored", secret.Key, "as", secret.ID)
			return nil
		},
	}
}

func (a *App) secretGetCmd() *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "get <key-or-id>",
		Short: "Retrieve a secret's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			get := a.api.GetSecretByKey
			if byID {
				get = a.api.GetSecretByID
			}
			secret, err := get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			// value only, so the output can be piped
			cmd.Println(secret.Value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "look up by secret id instead of key")
	return cmd
}

func (a *App) secretListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the vault's secrets (metadata only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			items, err := a.api.ListSecrets(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				cmd.Println("vault is empty")
				return nil
			}
			for _, item := range items {
				cmd.Printf("%s  %s  %s\n",
					item.ID, color.CyanString(item.Key),
					item.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func (a *App) secretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a secret, printing its final value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			secret, err := a.api.DeleteSecret(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Println(color.GreenString("✓"), "deleted", secret.Key)
			cmd.Println("  last value:", secret.Value)
			return nil
		},
	}
}
