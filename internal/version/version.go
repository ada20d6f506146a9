package version

import "runtime/debug"

const (
	// Version is the current semantic version of gmailspace.
	Version = "0.2.0"
)

// GitCommit is set during build time (use -ldflags)
var GitCommit = "unknown"

// FullInfo returns detailed version information
func FullInfo() string {
	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	return "gmailspace " + Version + " (commit: " + GitCommit + ", " + goVersion + ")"
}
