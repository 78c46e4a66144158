package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
)

// ParentRef identifies one folder location in the tree: a folder entry id,
// or the top level of a department when FolderID is nil.
type ParentRef struct {
	DepartmentID string
	FolderID     *string
}

// Key returns the grouping key for the location. Folder ids are unique across
// departments, so the department only matters for top-level locations.
func (r ParentRef) Key() string {
	if r.FolderID == nil {
		return "dept:" + r.DepartmentID
	}
	return *r.FolderID
}

// EntryRepository defines data access operations for directory entries
type EntryRepository interface {
	// Create inserts a single entry
	Create(ctx context.Context, entry *directory.Entry) error

	// CreateMany inserts a batch of entries
	CreateMany(ctx context.Context, entries []*directory.Entry) error

	// GetByID retrieves an entry by ID
	GetByID(ctx context.Context, id string) (*directory.Entry, error)

	// Update updates an entry's mutable fields (name, slug, emoji, parent, sort order)
	Update(ctx context.Context, entry *directory.Entry) error

	// Delete deletes a single entry
	Delete(ctx context.Context, id string) error

	// DeleteMany deletes entries by id set
	DeleteMany(ctx context.Context, ids []string) error

	// ListByDepartment retrieves all entries of a department (flat list)
	ListByDepartment(ctx context.Context, departmentID string) ([]directory.Entry, error)

	// ListByFrame retrieves all placements of a frame
	ListByFrame(ctx context.Context, frameID string) ([]directory.Entry, error)

	// ListByIDs retrieves entries by id set
	ListByIDs(ctx context.Context, ids []string) ([]directory.Entry, error)

	// ListChildren lists immediate children of a folder (or a department's
	// top level when parentID is nil), ordered by sort_order then name
	ListChildren(ctx context.Context, departmentID string, parentID *string) ([]directory.Entry, error)

	// ListSlugs returns the slugs already present under each location,
	// keyed by ParentRef.Key()
	ListSlugs(ctx context.Context, refs []ParentRef) (map[string][]string, error)

	// UpdateFrameIdentity propagates name/emoji to every placement of a
	// frame (update by frame_id, not by entry id). Slug changes go through
	// per-placement updates so collision suffixes stay local to each folder.
	UpdateFrameIdentity(ctx context.Context, frameID, name string, emoji *string, updatedBy string) error

	// UpdateSlug rewrites one placement's slug
	UpdateSlug(ctx context.Context, id, slug, updatedBy string) error

	// SetSortOrder writes an explicit sort position for one entry
	SetSortOrder(ctx context.Context, id string, sortOrder int, updatedBy string) error
}
