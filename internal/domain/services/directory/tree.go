package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
)

// TreeService builds navigable structures from a department's flat entry list
// and resolves URL routes against them.
type TreeService interface {
	// GetDepartmentTree builds the nested entry tree for a department
	GetDepartmentTree(ctx context.Context, departmentID string) (*directory.TreeNode, error)

	// Resolve maps an ordered list of slugs to the entry it addresses.
	// Returns (nil, nil) when the route matches nothing; a miss is a normal
	// outcome, not an error. An empty segment list resolves to the
	// department root, also (nil, nil).
	Resolve(ctx context.Context, departmentID string, segments []string) (*directory.Entry, error)

	// EntryPath computes the ordered slug path from the department root to
	// the entry, for building URLs of the shape /{departmentId}/{slug}/...
	EntryPath(ctx context.Context, entryID string) ([]string, error)
}
