package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/college/internal/common"
	"github.com/dmitrijs2005/college/internal/dbx"
	"github.com/dmitrijs2005/college/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// PostgresRepository stores students in PostgreSQL over a dbx.DBTX
// (*sql.DB or *sql.Tx). List is ordered by id.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT id, name, age, department FROM students ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT id, name, age, department FROM students WHERE id = $1`

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

func (r *PostgresRepository) Create(ctx context.Context, s *models.Student) error {
	query :=
		`INSERT INTO students (id, name, age, department)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Age, s.Department)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrConflict)
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Student) error {
	query :=
		`UPDATE students SET name = $2, age = $3, department = $4
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Age, s.Department)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM students WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, common.ErrNotFound)
}

// expectOneRow returns none when the statement touched no rows.
func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return none
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func scanStudents(rows *sql.Rows) ([]models.Student, error) {
	result := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Department); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
