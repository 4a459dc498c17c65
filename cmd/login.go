package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"catcher/internal/auth"
	"catcher/internal/cli"
	"catcher/internal/oauth"
	"catcher/internal/session"
	"catcher/pkg/logging"
)

// Login-specific flags
var (
	loginNoBrowser bool
	loginQuiet     bool
	loginEphemeral bool
)

// newPrompter creates the prompter for interactive answers. Tests replace it.
var newPrompter = func(out io.Writer) *cli.Prompter {
	return cli.NewPrompter(os.Stdin, out)
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [org/repo]",
		Short: "Log in to GitHub for a CATcher session",
		Long: `Log in to GitHub for a CATcher session.

The session is an organization and data repository separated by a slash.
Without an argument the last session is reused, or you are asked for one.

If a confirmed login is stored it is resumed. Otherwise the GitHub login page
is opened in your browser, and once GitHub redirects back you are asked to
confirm the account before the login is stored.

Examples:
  catcher login CATcher-org/pe          # Log in for a session
  catcher login                         # Reuse the last session
  catcher login --no-browser            # Print the login URL instead of opening it
  catcher login --ephemeral             # Keep nothing on disk`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogin,
	}
	cmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the login URL instead of opening a browser")
	cmd.Flags().BoolVarP(&loginQuiet, "quiet", "q", false, "Suppress progress output")
	cmd.Flags().BoolVar(&loginEphemeral, "ephemeral", false, "Keep session and credential in memory only")
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	env, err := openEnvironment(loginEphemeral)
	if err != nil {
		return err
	}
	defer env.Close()

	prompter := newPrompter(out)
	info, err := resolveSession(cmd.Context(), env.sessions, args, prompter)
	if err != nil {
		return err
	}
	if err := env.sessions.Save(cmd.Context(), info.Organization, info.DataRepository); err != nil {
		return err
	}
	if _, err := env.sessions.Restore(cmd.Context(), env.active); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	// Ctrl-C closes the callback server, which the machine sees as the login
	// window being closed.
	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := oauth.NewCallbackServer(env.cfg.OAuth.CallbackPort)
	defer server.Close()

	redirectOut := out
	if loginQuiet && !loginNoBrowser {
		redirectOut = nil
	}
	reporter := cli.NewReporter(cmd.ErrOrStderr())
	machine, err := env.newMachine(machineDeps{
		callbacks: server,
		redirect: oauth.RedirectorConfig{
			RedirectURLFunc: server.RedirectURI,
			NoBrowser:       loginNoBrowser,
			Out:             redirectOut,
		},
		reporter: reporter,
	})
	if err != nil {
		return err
	}

	return runMachine(cmd.Context(), machine, server.Errors(), func(ctx context.Context) error {
		resumed, err := machine.Resume(ctx)
		if err != nil {
			return err
		}
		if resumed {
			printLoggedIn(out, machine, env.active)
			return nil
		}

		if _, err := server.Start(sigCtx); err != nil {
			return err
		}
		return login(ctx, sigCtx, out, machine, reporter, prompter, env.active)
	})
}

// resolveSession picks the session from the argument, the stored session,
// or a prompt, in that order.
func resolveSession(ctx context.Context, store *session.Store, args []string, prompter *cli.Prompter) (session.Info, error) {
	if len(args) == 1 {
		return session.ParseInfo(args[0]), nil
	}

	stored, err := store.Load(ctx)
	if err != nil {
		return session.Info{}, err
	}
	if !stored.IsZero() {
		logging.Debug("Login", "Using stored session %s", stored)
		return stored, nil
	}

	answer, err := prompter.Ask("Session (org/repo): ")
	if err != nil {
		if errors.Is(err, cli.ErrInterrupted) {
			return session.Info{}, &cli.AuthCancelledError{}
		}
		return session.Info{}, err
	}
	return session.ParseInfo(answer), nil
}

// login drives one interactive login attempt to a final state.
func login(ctx, sigCtx context.Context, out io.Writer, machine *auth.Machine, reporter *cli.Reporter, prompter *cli.Prompter, active *session.Active) error {
	changes := make(chan auth.StateChange, 8)
	unsubscribe := machine.Subscribe(func(c auth.StateChange) {
		select {
		case changes <- c:
		default:
			logging.Warn("Login", "Dropped state change %s -> %s", c.From, c.To)
		}
	})
	defer unsubscribe()

	if err := machine.StartLogin(ctx); err != nil {
		// Only errors the reporter already showed become AuthFailedError,
		// which Execute does not print again.
		if reporter.Last() == err && !errors.Is(err, auth.ErrUpdateRequired) {
			return &cli.AuthFailedError{Reason: err}
		}
		return err
	}

	spin := cli.NewSpinner(out, "Waiting for GitHub login in your browser...", loginQuiet)
	spin.Start()
	defer spin.Stop()

	for {
		select {
		case c := <-changes:
			switch c.To {
			case auth.ConfirmOAuthUser:
				spin.Stop()
				return confirmIdentity(ctx, out, machine, prompter, active)
			case auth.NotAuthenticated:
				if c.Err != nil {
					spin.Fail("Login failed")
					return &cli.AuthFailedError{Reason: c.Err}
				}
				spin.Stop()
				return &cli.AuthCancelledError{}
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-sigCtx.Done():
			// The server delivers the cancel to the machine; wait for it to
			// settle unless the machine is gone.
			sigCtx = context.Background()
		}
	}
}

func confirmIdentity(ctx context.Context, out io.Writer, machine *auth.Machine, prompter *cli.Prompter, active *session.Active) error {
	user, ok := machine.Gate().Identity()
	if !ok {
		return &cli.AuthFailedError{Reason: errors.New("no identity to confirm")}
	}

	// A decision must reach the machine even after Ctrl-C.
	decisionCtx := context.WithoutCancel(ctx)

	confirmed, err := prompter.Confirm(fmt.Sprintf("Logged in to GitHub as %s. Continue?", describeUser(user.Login, user.Name)))
	if err != nil || !confirmed {
		if rejectErr := machine.Gate().Reject(decisionCtx); rejectErr != nil {
			logging.Warn("Login", "Could not reject identity: %v", rejectErr)
		}
		if err != nil && !errors.Is(err, cli.ErrInterrupted) {
			return err
		}
		return &cli.AuthCancelledError{Rejected: err == nil}
	}

	if err := machine.Gate().Confirm(decisionCtx); err != nil {
		return err
	}
	printLoggedIn(out, machine, active)
	return nil
}

func printLoggedIn(out io.Writer, machine *auth.Machine, active *session.Active) {
	user := machine.User()
	if user == nil {
		return
	}
	who := describeUser(user.Login, user.Name)
	info, ok := active.Current()
	if !ok || info.IsZero() {
		fmt.Fprintf(out, "%s Logged in as %s\n", text.FgGreen.Sprint("✓"), who)
		return
	}
	fmt.Fprintf(out, "%s Logged in as %s for session %s\n", text.FgGreen.Sprint("✓"), who, info)
}

func describeUser(login, name string) string {
	if name == "" || name == login {
		return login
	}
	return fmt.Sprintf("%s (%s)", login, name)
}
