package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"catcher/internal/cli"
	"catcher/internal/formatting"
	"catcher/internal/oauth"
)

var statusOutput string

// statusReport is the machine-readable form of `catcher status`.
type statusReport struct {
	Session        string `json:"session,omitempty" yaml:"session,omitempty"`
	Organization   string `json:"organization,omitempty" yaml:"organization,omitempty"`
	DataRepository string `json:"dataRepository,omitempty" yaml:"dataRepository,omitempty"`
	State          string `json:"state" yaml:"state"`
	Login          string `json:"login,omitempty" yaml:"login,omitempty"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	Storage        string `json:"storage" yaml:"storage"`
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session and login state",
		Long: `Show the current session and whether a confirmed login is stored.

Exits with code 2 when no login is stored, so scripts can check for it.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	env, err := openEnvironment(false)
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.sessions.Restore(cmd.Context(), env.active); err != nil {
		return err
	}
	info, _ := env.active.Current()

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

		view := cli.StatusView{
			State:   machine.State(),
			Storage: string(env.cfg.Storage.Backend),
		}
		if !info.IsZero() {
			view.Session = info.String()
		}
		if user := machine.User(); user != nil {
			view.Login = user.Login
			view.Name = user.Name
		}
		report := statusReport{
			Session:        view.Session,
			Organization:   info.Organization,
			DataRepository: info.DataRepository,
			State:          view.State.String(),
			Login:          view.Login,
			Name:           view.Name,
			Storage:        view.Storage,
		}
		err = formatting.Write(cmd.OutOrStdout(), formatting.Options{Format: format}, report, func(w io.Writer) {
			cli.PrintStatus(w, view)
		})
		if err != nil {
			return err
		}

		if !resumed {
			return &cli.AuthRequiredError{Session: view.Session}
		}
		return nil
	})
}
