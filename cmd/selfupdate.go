package cmd

import (
	"github.com/spf13/cobra"

	"catcher/internal/config"
	"catcher/internal/version"
)

// newSelfUpdateCmd creates the Cobra command for the self-update functionality.
// This allows the application to update itself to the latest version from GitHub.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update catcher to the latest version",
		Long: `Checks for the latest release of catcher on GitHub and
updates the current binary if a newer version is found.`,
		RunE: runSelfUpdate,
	}
}

// runSelfUpdate checks the current version against the latest GitHub release and updates if necessary.
func runSelfUpdate(cmd *cobra.Command, args []string) error {
	currentVersion := rootCmd.Version
	if currentVersion == "" || currentVersion == version.DevVersion {
		return version.ErrDevelopmentBuild
	}

	repository := config.DefaultReleaseRepository
	if cfg, err := config.LoadConfig(configPath); err == nil && cfg.Update.Repository != "" {
		repository = cfg.Update.Repository
	}

	updater, err := version.NewUpdater(repository)
	if err != nil {
		return err
	}

	_, err = updater.Update(cmd.Context(), currentVersion, cmd.OutOrStdout())
	return err
}
