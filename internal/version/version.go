// Package version records the build version of the condense service.
package version

import "fmt"

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/lyon1/condense/internal/version.Version=...".
var Version = "0.4.0"

// DevVersion is the dev version suffix used in non-prod modes.
var DevVersion = fmt.Sprintf("%s-dev", Version)

// GetCurrentVersion returns the version string for the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "prod" {
		return Version
	}
	return DevVersion
}
