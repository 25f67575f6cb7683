// Package version carries build metadata injected with -ldflags at release time.
package version

import "runtime/debug"

// Version is the release version of the codecbench binary.
var Version = "dev"

// Commit is the Git hash the binary was built from.
var Commit = "<unknown>"

// Date is the build timestamp.
var Date = "<unknown>"

// Resolve returns Version, falling back to the module version recorded by
// `go install` when no release version was injected.
func Resolve() string {
	if Version != "dev" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return Version
}
