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

const frameColumns = "id, name, iframe_url, description, department_ids, created_by, created_at, updated_at"

// PostgresFrameRepository implements the FrameRepository interface
type PostgresFrameRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFrameRepository creates a new frame repository
func NewFrameRepository(config *postgres.RepositoryConfig) dirRepo.FrameRepository {
	return &PostgresFrameRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new frame
func (r *PostgresFrameRepository) Create(ctx context.Context, frame *models.Frame) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, iframe_url, description, department_ids, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, r.tables.Frames)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		frame.ID,
		frame.Name,
		frame.IframeURL,
		frame.Description,
		frame.DepartmentIDs,
		frame.CreatedBy,
		frame.CreatedAt,
		frame.UpdatedAt,
	).Scan(&frame.CreatedAt, &frame.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}

	return nil
}

// GetByID retrieves a frame by ID
func (r *PostgresFrameRepository) GetByID(ctx context.Context, id string) (*models.Frame, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, frameColumns, r.tables.Frames)

	var frame models.Frame
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&frame.ID,
		&frame.Name,
		&frame.IframeURL,
		&frame.Description,
		&frame.DepartmentIDs,
		&frame.CreatedBy,
		&frame.CreatedAt,
		&frame.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("frame %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get frame: %w", err)
	}

	return &frame, nil
}

// Update updates a frame
func (r *PostgresFrameRepository) Update(ctx context.Context, frame *models.Frame) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, iframe_url = $2, description = $3, department_ids = $4, updated_at = now()
		WHERE id = $5
	`, r.tables.Frames)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		frame.Name,
		frame.IframeURL,
		frame.Description,
		frame.DepartmentIDs,
		frame.ID,
	)
	if err != nil {
		return fmt.Errorf("update frame: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("frame %s: %w", frame.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a frame row
func (r *PostgresFrameRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Frames)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete frame: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("frame %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List retrieves all frames, newest first
func (r *PostgresFrameRepository) List(ctx context.Context) ([]models.Frame, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, frameColumns, r.tables.Frames)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var frames []models.Frame
	for rows.Next() {
		var frame models.Frame
		err := rows.Scan(
			&frame.ID,
			&frame.Name,
			&frame.IframeURL,
			&frame.Description,
			&frame.DepartmentIDs,
			&frame.CreatedBy,
			&frame.CreatedAt,
			&frame.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	return frames, nil
}
