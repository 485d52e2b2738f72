// Package buildinfo holds release metadata injected with -ldflags, e.g.
// -X github.com/aidanlsb/folio/internal/buildinfo.Version=v0.1.0.
package buildinfo

// These values default to empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
