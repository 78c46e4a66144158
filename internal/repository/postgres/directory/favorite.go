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

const favoriteColumns = "id, user_id, entry_id, department_id, article_path, created_at"

// PostgresFavoriteRepository implements the FavoriteRepository interface
type PostgresFavoriteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(config *postgres.RepositoryConfig) dirRepo.FavoriteRepository {
	return &PostgresFavoriteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a favorite
func (r *PostgresFavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, entry_id, department_id, article_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, r.tables.Favorites)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		fav.ID,
		fav.UserID,
		fav.EntryID,
		fav.DepartmentID,
		fav.ArticlePath,
		fav.CreatedAt,
	).Scan(&fav.CreatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "target is already a favorite",
				ResourceType: "favorite",
			}
		}
		return fmt.Errorf("create favorite: %w", err)
	}

	return nil
}

// Delete deletes a favorite by id
func (r *PostgresFavoriteRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Favorites)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// FindByTarget finds a user's favorite for the given target.
// Returns (nil, nil) when no favorite exists.
func (r *PostgresFavoriteRepository) FindByTarget(ctx context.Context, userID string, target models.Target) (*models.Favorite, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND `, favoriteColumns, r.tables.Favorites)

	args := []interface{}{userID}
	switch {
	case target.EntryID != nil:
		query += "entry_id = $2"
		args = append(args, *target.EntryID)
	case target.DepartmentID != nil:
		query += "department_id = $2"
		args = append(args, *target.DepartmentID)
	case target.ArticlePath != nil:
		query += "article_path = $2"
		args = append(args, *target.ArticlePath)
	default:
		return nil, fmt.Errorf("favorite target is empty: %w", domain.ErrValidation)
	}

	var fav models.Favorite
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, args...).Scan(
		&fav.ID,
		&fav.UserID,
		&fav.EntryID,
		&fav.DepartmentID,
		&fav.ArticlePath,
		&fav.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("find favorite: %w", err)
	}

	return &fav, nil
}

// ListByUser retrieves a user's favorites, newest first
func (r *PostgresFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, favoriteColumns, r.tables.Favorites)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		err := rows.Scan(
			&fav.ID,
			&fav.UserID,
			&fav.EntryID,
			&fav.DepartmentID,
			&fav.ArticlePath,
			&fav.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return favorites, nil
}

// DeleteByEntry removes favorites pointing at an entry
func (r *PostgresFavoriteRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE entry_id = $1`, r.tables.Favorites)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, entryID); err != nil {
		return fmt.Errorf("delete favorites by entry: %w", err)
	}

	return nil
}
