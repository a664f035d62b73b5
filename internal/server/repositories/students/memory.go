package students

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/college/internal/common"
	"github.com/dmitrijs2005/college/internal/server/models"
)

// MemoryRepository keeps records in process memory, listed in insertion
// order. Records are stored and returned by value, so callers never share
// memory with the collection.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []int64
	byID  map[int64]models.Student
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]models.Student)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Student, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) Create(ctx context.Context, s *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; ok {
		return common.ErrConflict
	}
	r.byID[s.ID] = *s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, s *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; !ok {
		return common.ErrNotFound
	}
	r.byID[s.ID] = *s
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}
