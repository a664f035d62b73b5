// Package students provides the storage backends for student records:
// an in-process map and SQL repositories for PostgreSQL and SQLite.
//
// Every backend rejects a duplicate id on Create with common.ErrConflict and
// reports an unknown id on Get, Update and Delete with common.ErrNotFound.
package students

import (
	"context"

	"github.com/dmitrijs2005/college/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, s *models.Student) error
	// Update replaces every field of the record with s.ID.
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id int64) error
}
