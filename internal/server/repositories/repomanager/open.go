package repomanager

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/college/internal/filex"
	"github.com/dmitrijs2005/college/internal/server/config"
)

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// Open returns the manager for driver. dsn is ignored for the memory driver.
func Open(driver, dsn string) (RepositoryManager, error) {
	switch driver {
	case config.DriverMemory:
		return NewMemoryRepositoryManager(), nil

	case config.DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres driver requires a database dsn")
		}
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgresRepositoryManager(db), nil

	case config.DriverSQLite:
		if dsn == "" {
			return nil, errors.New("sqlite driver requires a database path")
		}
		if path := sqlitePath(dsn); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, fmt.Errorf("open sqlite: %w", err)
			}
		}
		db, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// one writer at a time; concurrent writers would hit SQLITE_BUSY
		db.SetMaxOpenConns(1)
		return NewSQLiteRepositoryManager(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// sqlitePath returns the file system path named by dsn, or "" for in-memory
// databases.
func sqlitePath(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.HasPrefix(path, ":memory:") {
		return ""
	}
	return path
}
