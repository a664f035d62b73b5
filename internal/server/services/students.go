package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/college/internal/server/models"
	"github.com/dmitrijs2005/college/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/college/internal/server/repositories/students"
)

// StudentService validates student records and runs every write in its own
// transaction. Repository sentinels (common.ErrNotFound, common.ErrConflict)
// pass through unchanged; anything else is wrapped with the operation name.
type StudentService struct {
	repomanager repomanager.RepositoryManager
}

func NewStudentService(m repomanager.RepositoryManager) *StudentService {
	return &StudentService{repomanager: m}
}

func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	items, err := s.repomanager.Students().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return items, nil
}

func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	st, err := s.repomanager.Students().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return st, nil
}

func (s *StudentService) Create(ctx context.Context, st models.Student) error {
	if err := st.Validate(); err != nil {
		return err
	}
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repo students.Repository) error {
		return repo.Create(ctx, &st)
	})
	if err != nil {
		return fmt.Errorf("create student %d: %w", st.ID, err)
	}
	return nil
}

// Update replaces the record stored under id. Any id carried in st is
// ignored.
func (s *StudentService) Update(ctx context.Context, id int64, st models.Student) error {
	st.ID = id
	if err := st.Validate(); err != nil {
		return err
	}
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repo students.Repository) error {
		return repo.Update(ctx, &st)
	})
	if err != nil {
		return fmt.Errorf("update student %d: %w", id, err)
	}
	return nil
}

func (s *StudentService) Delete(ctx context.Context, id int64) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repo students.Repository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return nil
}

// Ready reports whether the backing store answers.
func (s *StudentService) Ready(ctx context.Context) error {
	return s.repomanager.Ping(ctx)
}
