// Package version carries the build metadata of the rbset binary.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/Sumatoshi-tech/rbset/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills Version from the module build info when it was not set by the linker.
func InitBinaryVersion() {
	if Version != "dev" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return
	}

	Version = info.Main.Version
}
