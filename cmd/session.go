package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or forget the stored session",
		Long: `Inspect or forget the stored CATcher session (org/repo).

Examples:
  catcher session show
  catcher session clear`,
	}

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		Args:  cobra.NoArgs,
		RunE:  runSessionShow,
	})
	sessionCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE:  runSessionClear,
	})
	return sessionCmd
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment(false)
	if err != nil {
		return err
	}
	defer env.Close()

	info, err := env.sessions.Load(cmd.Context())
	if err != nil {
		return err
	}
	if info.IsZero() {
		fmt.Fprintln(cmd.OutOrStdout(), "No session stored.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Organization:    %s\nData repository: %s\n", info.Organization, info.DataRepository)
	return nil
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment(false)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.sessions.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
	return nil
}
