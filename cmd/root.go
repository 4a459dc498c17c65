package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catcher/internal/auth"
	"catcher/internal/cli"
	"catcher/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates a command needs a login that is not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
	// ExitCodeUpdateRequired indicates login was refused because a newer release exists.
	ExitCodeUpdateRequired = 4
	// ExitCodeCancelled indicates the user cancelled the login.
	ExitCodeCancelled = 130
)

var (
	configPath string
	debug      bool
)

// rootCmd represents the base command for the catcher application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "catcher",
	Short: "Log in to GitHub for a CATcher session",
	Long: `catcher establishes a trusted GitHub identity for a CATcher session
(an organization/data repository pair) before session work can start.

It opens the GitHub login page in your browser, receives the OAuth callback
on a local port, exchanges the code for an access token, and asks you to
confirm the account before storing the login for later runs.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute, which knows which ones were already shown.
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if debug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "catcher version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		if shouldPrintError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if errors.Is(err, auth.ErrUpdateRequired) {
		return ExitCodeUpdateRequired
	}

	var cancelled *cli.AuthCancelledError
	if errors.As(err, &cancelled) {
		return ExitCodeCancelled
	}

	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	// Default to general error
	return ExitCodeError
}

// shouldPrintError reports whether err still needs to be shown. Errors that
// ended a login attempt were already printed by the reporter.
func shouldPrintError(err error) bool {
	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return false
	}
	return !errors.Is(err, auth.ErrUpdateRequired)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory (default is $HOME/.config/catcher)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
