package utils

import (
	"runtime/debug"
)

const (
	unknownVersion = "unknown"
	develVersion   = "(devel)"
)

// Version may be set at build time with -ldflags "-X github.com/tyemirov/codepack/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion prefers the linker-provided version over the module version
// recorded in the build info. It falls back to "unknown".
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
