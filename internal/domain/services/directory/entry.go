package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

// EntryService handles folder business logic
type EntryService interface {
	// CreateFolder creates a new folder entry
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*directory.Entry, error)

	// GetEntry retrieves an entry by ID
	GetEntry(ctx context.Context, id string) (*directory.Entry, error)

	// UpdateFolder updates a folder (rename, reslug, re-emoji or move)
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*directory.Entry, error)

	// DeleteFolder deletes a folder. Non-empty folders are refused unless
	// force is set, in which case descendants are deleted depth-first.
	DeleteFolder(ctx context.Context, id string, force bool, actorID string) error

	// ListChildren lists immediate children of a folder, or a department's
	// top level when parentID is nil
	ListChildren(ctx context.Context, departmentID string, parentID *string) ([]directory.Entry, error)

	// Reorder writes explicit sort positions for the given siblings, in the
	// order supplied
	Reorder(ctx context.Context, req *ReorderRequest) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	DepartmentID string  `json:"department_id"`
	ParentID     *string `json:"parent_id,omitempty"` // nil = top level
	Name         string  `json:"name"`
	Slug         string  `json:"slug,omitempty"` // defaults to slugified name
	Emoji        *string `json:"emoji,omitempty"`
	ActorID      string  `json:"-"` // set by handler from auth context
}

// UpdateFolderRequest represents a folder update request.
// ParentID uses tri-state semantics: absent = don't move, null = move to the
// department's top level, value = move under that folder.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	Slug     *string                 `json:"slug,omitempty"`
	Emoji    httputil.OptionalString `json:"emoji"`
	ParentID httputil.OptionalString `json:"parent_id"`
	ActorID  string                  `json:"-"`
}

// ReorderRequest pins an explicit ordering for the children of one folder
// (or of a department's top level when ParentID is nil).
type ReorderRequest struct {
	DepartmentID string   `json:"department_id"`
	ParentID     *string  `json:"parent_id,omitempty"`
	OrderedIDs   []string `json:"ordered_ids"`
	ActorID      string   `json:"-"`
}
