// Package version carries build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

const Name = "logsieve"

var (
	// Set at build time: -X logsieve/src/internal/version.Version=v1.2.3
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns the full version line
func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s)", Name, Version, GitCommit, BuildTime, runtime.Version())
}

// Short returns just the version tag
func Short() string {
	return Version
}

// Info returns the build information as a map for status output
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
		"go_version": runtime.Version(),
	}
}
