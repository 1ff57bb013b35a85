// Package buildinfo carries the version stamp injected at build time.
package buildinfo

// Populated through -ldflags at release build; the zero values identify a
// development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
