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

const entryColumns = "id, department_id, parent_id, frame_id, name, slug, emoji, sort_order, created_by, updated_by, created_at, updated_at"

// PostgresEntryRepository implements the EntryRepository interface
type PostgresEntryRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewEntryRepository creates a new directory entry repository
func NewEntryRepository(config *postgres.RepositoryConfig) dirRepo.EntryRepository {
	return &PostgresEntryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a single entry
func (r *PostgresEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, department_id, parent_id, frame_id, name, slug, emoji, sort_order, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.ID,
		entry.DepartmentID,
		entry.ParentID,
		entry.FrameID,
		entry.Name,
		entry.Slug,
		entry.Emoji,
		entry.SortOrder,
		entry.CreatedBy,
		entry.UpdatedBy,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an entry with slug %q already exists in this location", entry.Slug),
				ResourceType: "entry",
			}
		}
		return fmt.Errorf("create entry: %w", err)
	}

	return nil
}

// CreateMany inserts a batch of entries. Runs row by row through the
// context executor so it participates in an ambient transaction.
func (r *PostgresEntryRepository) CreateMany(ctx context.Context, entries []*models.Entry) error {
	for _, entry := range entries {
		if err := r.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves an entry by ID
func (r *PostgresEntryRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, entryColumns, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	entry, err := scanEntry(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return entry, nil
}

// Update updates an entry's mutable fields
func (r *PostgresEntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET department_id = $1, parent_id = $2, name = $3, slug = $4, emoji = $5, sort_order = $6, updated_by = $7, updated_at = now()
		WHERE id = $8
	`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		entry.DepartmentID,
		entry.ParentID,
		entry.Name,
		entry.Slug,
		entry.Emoji,
		entry.SortOrder,
		entry.UpdatedBy,
		entry.ID,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an entry with slug %q already exists in this location", entry.Slug),
				ResourceType: "entry",
			}
		}
		return fmt.Errorf("update entry: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", entry.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a single entry
func (r *PostgresEntryRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteMany deletes entries by id set
func (r *PostgresEntryRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	return nil
}

// ListByDepartment retrieves all entries of a department as a flat list
func (r *PostgresEntryRepository) ListByDepartment(ctx context.Context, departmentID string) ([]models.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE department_id = $1
		ORDER BY sort_order ASC NULLS LAST, name ASC
	`, entryColumns, r.tables.Entries)

	return r.queryEntries(ctx, query, departmentID)
}

// ListByFrame retrieves all placements of a frame
func (r *PostgresEntryRepository) ListByFrame(ctx context.Context, frameID string) ([]models.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE frame_id = $1
		ORDER BY created_at ASC
	`, entryColumns, r.tables.Entries)

	return r.queryEntries(ctx, query, frameID)
}

// ListByIDs retrieves entries by id set
func (r *PostgresEntryRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, entryColumns, r.tables.Entries)

	return r.queryEntries(ctx, query, ids)
}

// ListChildren lists immediate children of a folder, ordered by sort_order
// then name. A nil parentID addresses the department's top level.
func (r *PostgresEntryRepository) ListChildren(ctx context.Context, departmentID string, parentID *string) ([]models.Entry, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE department_id = $1 AND parent_id IS NULL
			ORDER BY sort_order ASC NULLS LAST, name ASC
		`, entryColumns, r.tables.Entries)
		args = []interface{}{departmentID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE parent_id = $1
			ORDER BY sort_order ASC NULLS LAST, name ASC
		`, entryColumns, r.tables.Entries)
		args = []interface{}{*parentID}
	}

	return r.queryEntries(ctx, query, args...)
}

// ListSlugs returns the slugs already present under each location, keyed by
// ParentRef.Key(). Folder locations batch into one query; top-level locations
// batch into a second.
func (r *PostgresEntryRepository) ListSlugs(ctx context.Context, refs []dirRepo.ParentRef) (map[string][]string, error) {
	slugs := make(map[string][]string, len(refs))

	var folderIDs []string
	var topLevelDepts []string
	for _, ref := range refs {
		// Seed every requested key so callers can distinguish "empty
		// location" from "location not asked about".
		if _, ok := slugs[ref.Key()]; !ok {
			slugs[ref.Key()] = nil
		}
		if ref.FolderID != nil {
			folderIDs = append(folderIDs, *ref.FolderID)
		} else {
			topLevelDepts = append(topLevelDepts, ref.DepartmentID)
		}
	}

	executor := postgres.GetExecutor(ctx, r.pool)

	if len(folderIDs) > 0 {
		query := fmt.Sprintf(`SELECT parent_id, slug FROM %s WHERE parent_id = ANY($1)`, r.tables.Entries)
		rows, err := executor.Query(ctx, query, folderIDs)
		if err != nil {
			return nil, fmt.Errorf("list slugs by parent: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var parentID, slug string
			if err := rows.Scan(&parentID, &slug); err != nil {
				return nil, fmt.Errorf("scan slug: %w", err)
			}
			slugs[parentID] = append(slugs[parentID], slug)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("list slugs by parent: %w", err)
		}
	}

	if len(topLevelDepts) > 0 {
		query := fmt.Sprintf(`SELECT department_id, slug FROM %s WHERE parent_id IS NULL AND department_id = ANY($1)`, r.tables.Entries)
		rows, err := executor.Query(ctx, query, topLevelDepts)
		if err != nil {
			return nil, fmt.Errorf("list top-level slugs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var departmentID, slug string
			if err := rows.Scan(&departmentID, &slug); err != nil {
				return nil, fmt.Errorf("scan slug: %w", err)
			}
			key := "dept:" + departmentID
			slugs[key] = append(slugs[key], slug)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("list top-level slugs: %w", err)
		}
	}

	return slugs, nil
}

// UpdateFrameIdentity propagates name/emoji to every placement of a frame
func (r *PostgresEntryRepository) UpdateFrameIdentity(ctx context.Context, frameID, name string, emoji *string, updatedBy string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, emoji = $2, updated_by = $3, updated_at = now()
		WHERE frame_id = $4
	`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, name, emoji, updatedBy, frameID); err != nil {
		return fmt.Errorf("propagate frame identity: %w", err)
	}

	return nil
}

// UpdateSlug rewrites one placement's slug
func (r *PostgresEntryRepository) UpdateSlug(ctx context.Context, id, slug, updatedBy string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET slug = $1, updated_by = $2, updated_at = now()
		WHERE id = $3
	`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, slug, updatedBy, id)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("an entry with slug %q already exists in this location", slug),
				ResourceType: "entry",
			}
		}
		return fmt.Errorf("update slug: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetSortOrder writes an explicit sort position for one entry
func (r *PostgresEntryRepository) SetSortOrder(ctx context.Context, id string, sortOrder int, updatedBy string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET sort_order = $1, updated_by = $2, updated_at = now()
		WHERE id = $3
	`, r.tables.Entries)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, sortOrder, updatedBy, id)
	if err != nil {
		return fmt.Errorf("set sort order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.Entry, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var entry models.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.DepartmentID,
			&entry.ParentID,
			&entry.FrameID,
			&entry.Name,
			&entry.Slug,
			&entry.Emoji,
			&entry.SortOrder,
			&entry.CreatedBy,
			&entry.UpdatedBy,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var entry models.Entry
	err := row.Scan(
		&entry.ID,
		&entry.DepartmentID,
		&entry.ParentID,
		&entry.FrameID,
		&entry.Name,
		&entry.Slug,
		&entry.Emoji,
		&entry.SortOrder,
		&entry.CreatedBy,
		&entry.UpdatedBy,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
