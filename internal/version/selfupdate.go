package version

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/creativeprojects/go-selfupdate"
)

// DefaultRepository is the GitHub repository catcher releases are published to.
const DefaultRepository = "CATcher-org/catcher-cli"

// ErrDevelopmentBuild is returned when attempting to self-update a build
// without a release version.
var ErrDevelopmentBuild = errors.New("cannot self-update a development version")

// Updater finds and installs releases from a GitHub repository.
type Updater struct {
	slug    string
	updater *selfupdate.Updater
}

// NewUpdater creates an updater for the owner/repo slug.
func NewUpdater(slug string) (*Updater, error) {
	if slug == "" {
		slug = DefaultRepository
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}
	return &Updater{slug: slug, updater: updater}, nil
}

func (u *Updater) detect(ctx context.Context) (*selfupdate.Release, bool, error) {
	latest, found, err := u.updater.DetectLatest(ctx, selfupdate.ParseSlug(u.slug))
	if err != nil {
		return nil, false, fmt.Errorf("error detecting latest version: %w", err)
	}
	return latest, found, nil
}

// LatestVersion implements ReleaseSource.
func (u *Updater) LatestVersion(ctx context.Context) (string, error) {
	latest, found, err := u.detect(ctx)
	if err != nil || !found {
		return "", err
	}
	return latest.Version(), nil
}

// Update replaces the running executable with the latest release when it
// is newer than current. Progress is written to out.
func (u *Updater) Update(ctx context.Context, current string, out io.Writer) (bool, error) {
	if current == "" || current == DevVersion {
		return false, ErrDevelopmentBuild
	}

	fmt.Fprintf(out, "Current version: %s\n", current)
	fmt.Fprintln(out, "Checking for updates...")

	latest, found, err := u.detect(ctx)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("latest release for %s could not be found", u.slug)
	}
	if !latest.GreaterThan(current) {
		fmt.Fprintln(out, "Current version is the latest.")
		return false, nil
	}

	fmt.Fprintf(out, "Found newer version: %s (published at %s)\n", latest.Version(), latest.PublishedAt)
	if latest.ReleaseNotes != "" {
		fmt.Fprintf(out, "Release notes:\n%s\n", latest.ReleaseNotes)
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return false, fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(out, "Updating %s to version %s...\n", exe, latest.Version())
	if err := u.updater.UpdateTo(ctx, latest, exe); err != nil {
		return false, fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", latest.Version())
	return true, nil
}
