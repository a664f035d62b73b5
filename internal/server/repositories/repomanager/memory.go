package repomanager

import (
	"context"

	"github.com/dmitrijs2005/college/internal/server/repositories/students"
)

// MemoryRepositoryManager serves a process-local student collection. The
// collection is lost on restart.
type MemoryRepositoryManager struct {
	repo *students.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{repo: students.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Students() students.Repository {
	return m.repo
}

// WithTx calls fn directly; each repository call is atomic on its own.
func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo students.Repository) error) error {
	return fn(ctx, m.repo)
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryRepositoryManager) Close() error { return nil }
