// Package version decides whether the running catcher build is outdated and
// performs self-updates from GitHub releases.
package version
