// Package version exposes the emfactor build version.
package version

// version is overridden at build time via
// -ldflags "-X github.com/emfactor/emfactor/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Build-time injection target.
var version = "dev"

// GetVersion returns the build version string.
func GetVersion() string {
	return version
}
