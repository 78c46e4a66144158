package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain"
	models "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirRepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/repository/postgres"
)

// PostgresDepartmentRepository implements the DepartmentRepository interface.
// The table is written by the HR sync job; the portal only reads it.
type PostgresDepartmentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(config *postgres.RepositoryConfig) dirRepo.DepartmentRepository {
	return &PostgresDepartmentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a department by ID
func (r *PostgresDepartmentRepository) GetByID(ctx context.Context, id string) (*models.Department, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, r.tables.Departments)

	var dept models.Department
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&dept.ID, &dept.Name)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("department %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get department: %w", err)
	}

	return &dept, nil
}

// List retrieves all departments ordered by name
func (r *PostgresDepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC`, r.tables.Departments)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var depts []models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		depts = append(depts, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	return depts, nil
}
