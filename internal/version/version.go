package version

import "fmt"

var (
	// Version is the release of the Cerebrium CLI this launcher installs and runs.
	// It is the single source of truth for the expected version and can be
	// overridden via ldflags at build time.
	Version = "2.1.4"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
