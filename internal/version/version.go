package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/depot-tools/depotc/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/depot-tools/depotc/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/depot-tools/depotc/internal/version.Date={{.Date}}
)
