//go:build !sqlite_cgo

package storage

// Compiled by default. Uses the pure Go SQLite implementation so the API
// builds with CGO_ENABLED=0 on any platform.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
