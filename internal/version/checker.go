package version

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"catcher/pkg/logging"
)

// DevVersion is the version string of unreleased builds.
const DevVersion = "dev"

// ReleaseSource reports the newest published version. An empty string means
// no release was found.
type ReleaseSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// Checker compares the running version with the latest release.
type Checker struct {
	current string
	source  ReleaseSource
}

// NewChecker creates a checker for the running version current.
func NewChecker(current string, source ReleaseSource) *Checker {
	return &Checker{current: current, source: source}
}

// IsOutdated reports whether a newer release than the running version
// exists. Development and unparsable versions are never outdated.
func (c *Checker) IsOutdated(ctx context.Context) (bool, error) {
	current, ok := parse(c.current)
	if !ok {
		logging.Debug("Version", "Skipping update check for version %q", c.current)
		return false, nil
	}

	latestRaw, err := c.source.LatestVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to look up latest release: %w", err)
	}
	if latestRaw == "" {
		return false, nil
	}

	latest, ok := parse(latestRaw)
	if !ok {
		logging.Warn("Version", "Ignoring unparsable release version %q", latestRaw)
		return false, nil
	}

	outdated := latest.GreaterThan(current)
	if outdated {
		logging.Info("Version", "Running %s, latest release is %s", current, latest)
	}
	return outdated, nil
}

func parse(v string) (*semver.Version, bool) {
	if v == "" || v == DevVersion {
		return nil, false
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, false
	}
	return parsed, true
}
