// Package migrations embeds the goose SQL migrations for each SQL dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the PostgreSQL migrations rooted at the FS top level.
func Postgres() fs.FS { return sub("postgres") }

// SQLite returns the SQLite migrations rooted at the FS top level.
func SQLite() fs.FS { return sub("sqlite") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir is one of the embedded literals above
		panic(err)
	}
	return f
}
