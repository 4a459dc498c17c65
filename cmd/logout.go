package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"catcher/internal/cli"
	"catcher/internal/oauth"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored login",
		Long: `Sign out of GitHub.

The stored access token is removed, so the next 'catcher login' opens the
GitHub login page again. The session (org/repo) is kept; use
'catcher session clear' to forget it.`,
		Args: cobra.NoArgs,
		RunE: runLogout,
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	env, err := openEnvironment(false)
	if err != nil {
		return err
	}
	defer env.Close()

	machine, err := env.newMachine(machineDeps{
		callbacks: oauth.NewCallbackServer(0),
		reporter:  cli.NewReporter(cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}

	return runMachine(cmd.Context(), machine, nil, func(ctx context.Context) error {
		resumed, err := machine.Resume(ctx)
		if err != nil {
			return err
		}
		if !resumed {
			fmt.Fprintln(out, "Not logged in.")
			return nil
		}

		login := machine.User().Login
		if err := machine.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Logged out %s.\n", login)
		return nil
	})
}
