package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	models "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirRepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/repository/postgres"
)

// PostgresSettingRepository implements the SettingRepository interface
type PostgresSettingRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewSettingRepository creates a new portal setting repository
func NewSettingRepository(config *postgres.RepositoryConfig) dirRepo.SettingRepository {
	return &PostgresSettingRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get retrieves a setting by key. Returns (nil, nil) for unknown keys.
func (r *PostgresSettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	query := fmt.Sprintf(`SELECT key, value, updated_by, updated_at FROM %s WHERE key = $1`, r.tables.Settings)

	var setting models.Setting
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&setting.UpdatedBy,
		&setting.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil // Never written, not an error
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}

	return &setting, nil
}

// Upsert inserts or replaces a setting
func (r *PostgresSettingRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_by, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = now()
	`, r.tables.Settings)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, setting.Key, setting.Value, setting.UpdatedBy); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}
