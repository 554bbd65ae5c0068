// Package version exposes build metadata injected at link time.
package version

// Set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Map returns all build metadata, for health endpoints.
func Map() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	}
}
