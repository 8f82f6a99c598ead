// Package cli implements the cobra command tree of the locksmith client.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/locksmith/internal/client/api"
	"github.com/dmitrijs2005/locksmith/internal/client/config"
	"github.com/dmitrijs2005/locksmith/internal/client/session"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// App carries the dependencies shared by every command.
type App struct {
	api   *api.Client
	store *session.Store
}

// NewApp constructs the CLI against the configured server.
func NewApp(cfg *config.Config) (*App, error) {
	store, err := session.NewStore()
	if err != nil {
		return nil, err
	}
	return &App{
		api:   api.New(cfg.ServerBaseURL, cfg.RequestTimeout),
		store: store,
	}, nil
}

// Execute runs the root command.
func (a *App) Execute() {
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Println(color.RedString("✗"), err)
		os.Exit(1)
	}
}

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "locksmith",
		Short: "locksmith - a CLI for the locksmith secrets vault",
		Long: `locksmith talks to the locksmith server: register and log in,
store secrets, retrieve them by id or key, list your vault, and manage
your account.

Run 'locksmith help <command>' for details on a specific command.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.userCmd(),
		a.secretCmd(),
	)
	return root
}

// requireSession loads the cached login and attaches its token to the API
// client.
func (a *App) requireSession() (*session.Session, error) {
	sess, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Token == "" {
		return nil, errors.New("not logged in, run 'locksmith login' first")
	}
	a.api.SetToken(sess.Token)
	return sess, nil
}
