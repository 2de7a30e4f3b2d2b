// Package version exposes build information stamped in via ldflags:
//
//	go build -ldflags "-X github.com/quotewatch/isin-data/internal/version.Version=1.0.0 \
//	                   -X github.com/quotewatch/isin-data/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/quotewatch/isin-data/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	// Version is the semantic version, "dev" for unstamped builds.
	Version = "dev"

	// Commit is the short git commit hash.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp in ISO 8601.
	BuildTime = "unknown"
)

// String returns the version, commit and build time on one line.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
