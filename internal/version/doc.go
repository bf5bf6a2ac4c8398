// Package version exposes build metadata of the panel binaries.
//
// Version, Commit and BuildTime are set through ldflags; local builds keep the defaults.
package version
