// Package buildinfo exposes version metadata stamped at build time.
package buildinfo

// Set via -ldflags "-X github.com/lucrohq/lucro/internal/buildinfo.Version=..."
// and friends; defaults apply to plain go build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
