// Package version exposes the build version reported by /health and /api/status.
package version

import (
	"runtime/debug"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/leslieo2/lanc-compliance/internal/version.Version=1.2.3"
var Version = ""

// Get returns the linked version, then the main module version, then the default.
func Get() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return constants.DefaultVersion
}
