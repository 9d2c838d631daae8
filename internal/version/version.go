// Package version reports the build version.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/uuid-redirector/internal/version.Version=...".
var Version = "0.1.0-dev"
