// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/watchfire-io/salesboard/internal/buildinfo.Version=...
package buildinfo

var (
	Version    = "dev"
	Codename   = "Ledger"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
