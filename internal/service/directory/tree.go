package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dirmodels "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	dirrepo "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/repositories/directory"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
)

// TreeServiceImpl builds navigation trees and resolves slug routes for a
// department's directory. All shaping happens in memory over a single
// department-scoped query; see treebuilder.go for the pure parts.
type TreeServiceImpl struct {
	entryRepo dirrepo.EntryRepository
	deptRepo  dirrepo.DepartmentRepository
	logger    *slog.Logger
}

func NewTreeService(
	entryRepo dirrepo.EntryRepository,
	deptRepo dirrepo.DepartmentRepository,
	logger *slog.Logger,
) *TreeServiceImpl {
	return &TreeServiceImpl{
		entryRepo: entryRepo,
		deptRepo:  deptRepo,
		logger:    logger,
	}
}

// GetDepartmentTree loads every entry in the department and assembles the
// nested folder/page tree.
func (s *TreeServiceImpl) GetDepartmentTree(ctx context.Context, departmentID string) (*dirmodels.TreeNode, error) {
	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	entries, err := s.entryRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department entries: %w", err)
	}

	children := BuildChildrenIndex(entries)
	return &dirmodels.TreeNode{
		DepartmentID: departmentID,
		Entries:      buildSubtree(children, ""),
	}, nil
}

// buildSubtree materializes the nested node list rooted at the given parent
// key. Depth is bounded by the entry count: the children index is keyed by a
// real parent_id column, so no entry can appear in two groups.
func buildSubtree(children map[string][]dirmodels.Entry, parentKey string) []*dirmodels.EntryNode {
	group := children[parentKey]
	if len(group) == 0 {
		return nil
	}

	nodes := make([]*dirmodels.EntryNode, 0, len(group))
	for i := range group {
		entry := &group[i]
		node := &dirmodels.EntryNode{
			ID:        entry.ID,
			ParentID:  entry.ParentID,
			FrameID:   entry.FrameID,
			Name:      entry.Name,
			Slug:      entry.Slug,
			Emoji:     entry.Emoji,
			SortOrder: entry.SortOrder,
		}
		if entry.IsFolder() {
			node.Children = buildSubtree(children, entry.ID)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Resolve walks the slug segments from the department root. A miss returns
// (nil, nil) so callers can distinguish "no such route" from a lookup failure.
func (s *TreeServiceImpl) Resolve(ctx context.Context, departmentID string, segments []string) (*dirmodels.Entry, error) {
	entries, err := s.entryRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department entries: %w", err)
	}

	entry, ok := ResolveRoute(BuildChildrenIndex(entries), segments)
	if !ok {
		return nil, nil
	}
	return entry, nil
}

// EntryPath computes the ordered slug path from the department root down to
// the entry.
func (s *TreeServiceImpl) EntryPath(ctx context.Context, entryID string) ([]string, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	entries, err := s.entryRepo.ListByDepartment(ctx, entry.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department entries: %w", err)
	}

	path, err := BuildPathToRoot(BuildEntryIndex(entries), *entry)
	if err != nil {
		if errors.Is(err, ErrDanglingParent) {
			// Serve the partial path; the orphaned ancestor is a data
			// problem, not a request problem.
			s.logger.Warn("entry path truncated at dangling parent",
				"entry_id", entryID,
				"department_id", entry.DepartmentID,
			)
			return path, nil
		}
		return nil, err
	}
	return path, nil
}

var _ dirsvc.TreeService = (*TreeServiceImpl)(nil)
