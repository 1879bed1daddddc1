package main

import (
	"os"
	"runtime/debug"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags. When absent, the module
// version from build info is used instead.
var version = ""

func main() {
	cli.SetVersion(resolveVersion())
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return ""
}
