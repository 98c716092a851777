// Package version exposes build identity for startup logging.
package version

import "runtime/debug"

const AppName = "Marvin"

// Version returns the module version baked in by the Go toolchain, or
// "devel" for local builds.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}
	return info.Main.Version
}
