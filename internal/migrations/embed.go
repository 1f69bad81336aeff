package migrations

import "embed"

// FS holds one directory of golang-migrate files per database type.
//
//go:embed sqlite3 postgres mysql
var FS embed.FS
