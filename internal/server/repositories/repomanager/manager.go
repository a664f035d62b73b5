// Package repomanager vends the student repository for the configured
// storage driver and owns the backing connection: migrations, health pings,
// transaction scoping and shutdown.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/college/internal/server/repositories/students"
)

type RepositoryManager interface {
	// Students returns a repository bound to the shared connection.
	Students() students.Repository
	// WithTx runs fn with a repository scoped to one transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo students.Repository) error) error
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
