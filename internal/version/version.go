// Package version carries build metadata reported in the initialize handshake.
package version

// file: internal/version/version.go

import "fmt"

// Build-time variables. Override via -ldflags "-X github.com/dkoosis/syscontrol/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
}

// Get returns build metadata, substituting placeholders for empty fields.
func Get() Info {
	return Info{
		Version:   defaultOr(Version, "dev"),
		Commit:    defaultOr(Commit, "unknown"),
		BuildDate: defaultOr(BuildDate, "unknown"),
	}
}

// String renders the metadata on one line for the version subcommand.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.BuildDate)
}

func defaultOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
