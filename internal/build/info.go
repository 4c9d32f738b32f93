// Package build exposes build-time metadata injected via ldflags.
package build

import "fmt"

// Version, Commit, and Branch are set at build time by:
//
//	-ldflags "-X github.com/evesrp/evesrp/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// String formats the metadata for the version command and the page footer.
func String() string {
	return fmt.Sprintf("evesrp %s (%s, %s)", Version, Commit, Branch)
}
