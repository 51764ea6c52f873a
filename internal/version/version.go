// Package version holds build metadata injected via -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/battlewithbytes/demoize/internal/version.Version=v0.3.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
