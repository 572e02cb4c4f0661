// Package settings provides build metadata, per-run configuration, and
// context helpers shared by the kvtable CLI and library packages.
package settings

import "context"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "kvtable"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings describes where the data to print comes from.
type InputSettings struct {
	FromStdin bool
	Path      string
}

// Run holds the settings of a single execution.
type Run struct {
	MinLogLevel int8
	LogFormat   string
	Input       InputSettings
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the CLI: warnings and above are
// logged as JSON, color is on, and errors end the run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 1,
		LogFormat:   "json",
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}

type contextKey string

const settingsContextKey contextKey = "settings"

// IntoContext stores the run settings in ctx.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, settingsContextKey, s)
}

// FromContext retrieves the run settings from ctx.
func FromContext(ctx context.Context) (*Run, bool) {
	s, ok := ctx.Value(settingsContextKey).(*Run)
	return s, ok
}
