package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/college/internal/dbx"
	"github.com/dmitrijs2005/college/internal/server/migrations"
	"github.com/dmitrijs2005/college/internal/server/repositories/students"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager serves a SQL-backed repository. Postgres and SQLite
// differ only in goose dialect, embedded migrations and repository
// constructor.
type SQLRepositoryManager struct {
	db         *sql.DB
	dialect    goose.Dialect
	migrations fs.FS
	newRepo    func(dbx.DBTX) students.Repository
}

// NewPostgresRepositoryManager wraps an open pgx-backed *sql.DB.
func NewPostgresRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:         db,
		dialect:    goose.DialectPostgres,
		migrations: migrations.Postgres(),
		newRepo:    func(db dbx.DBTX) students.Repository { return students.NewPostgresRepository(db) },
	}
}

// NewSQLiteRepositoryManager wraps an open modernc sqlite *sql.DB.
func NewSQLiteRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:         db,
		dialect:    goose.DialectSQLite3,
		migrations: migrations.SQLite(),
		newRepo:    func(db dbx.DBTX) students.Repository { return students.NewSQLiteRepository(db) },
	}
}

func (m *SQLRepositoryManager) Students() students.Repository {
	return m.newRepo(m.db)
}

func (m *SQLRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo students.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.newRepo(tx))
	})
}

// gooseUp is a seam for testing goose.Provider.Up.
var gooseUp = func(ctx context.Context, p *goose.Provider) error {
	_, err := p.Up(ctx)
	return err
}

// RunMigrations applies the embedded migrations for the manager's dialect.
// The provider is not closed because that would close m.db.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	p, err := goose.NewProvider(m.dialect, m.db, m.migrations)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := gooseUp(ctx, p); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
