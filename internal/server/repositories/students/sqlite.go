package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/college/internal/common"
	"github.com/dmitrijs2005/college/internal/dbx"
	"github.com/dmitrijs2005/college/internal/server/models"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRepository stores students in SQLite over a dbx.DBTX. List is
// ordered by id.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT id, name, age, department FROM students ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT id, name, age, department FROM students WHERE id = ?`

	s := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Age, &s.Department)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Student) error {
	query :=
		`INSERT INTO students (id, name, age, department)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Age, s.Department)
	if err != nil {
		if isSQLiteConstraintError(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrConflict)
}

func (r *SQLiteRepository) Update(ctx context.Context, s *models.Student) error {
	query := `UPDATE students SET name = ?, age = ?, department = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, s.Name, s.Age, s.Department, s.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM students WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrNotFound)
}

func isSQLiteConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
