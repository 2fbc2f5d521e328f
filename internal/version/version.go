package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release version of the build. It can be overridden via ldflags.
	Version = ""
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// develVersion is what Go reports for a main module built from a working tree.
const develVersion = "(devel)"

// Short returns the release version: the injected one, else the main module version.
func Short() string {
	if Version != "" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return develVersion
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Short(), Commit, BuildTime)
}
