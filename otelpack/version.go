package otelpack

import "github.com/go-faster/lz4pack/internal/version"

// Version returns raw module version from build info, "0.0.0-dev" when
// module is not a dependency or main module.
func Version() string {
	return version.Get().Raw
}

// SemVersion returns Version in the form expected by
// trace.WithInstrumentationVersion.
func SemVersion() string {
	return "semver:" + Version()
}
