package directory

import (
	"errors"
	"sort"

	models "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
)

// treebuilder.go - Pure transformations from a flat entry list to navigable
// structures. No I/O; safe to run on every request.

// ErrEntryCycle is reported when following parent references revisits an
// entry. The walk is bounded, never infinite.
var ErrEntryCycle = errors.New("directory entry parent cycle")

// ErrDanglingParent is reported when an entry references a parent that is
// not in the set. The path built so far is still returned; callers should
// treat the walk as having reached the root early and flag the data.
var ErrDanglingParent = errors.New("directory entry parent missing")

// BuildChildrenIndex groups entries by parent id. Top-level entries group
// under the empty string. Groups are sorted by sort_order (explicit order
// first) then name, so output is a pure function of the input set.
func BuildChildrenIndex(entries []models.Entry) map[string][]models.Entry {
	children := make(map[string][]models.Entry)
	for _, entry := range entries {
		key := entry.ParentKey()
		children[key] = append(children[key], entry)
	}
	for key := range children {
		SortSiblings(children[key])
	}
	return children
}

// BuildEntryIndex maps entry id to entry
func BuildEntryIndex(entries []models.Entry) map[string]models.Entry {
	byID := make(map[string]models.Entry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}
	return byID
}

// SortSiblings orders entries the way navigation renders them: explicit
// sort_order first (ascending), then the rest by name.
func SortSiblings(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.SortOrder != nil && b.SortOrder != nil:
			if *a.SortOrder != *b.SortOrder {
				return *a.SortOrder < *b.SortOrder
			}
			return a.Name < b.Name
		case a.SortOrder != nil:
			return true
		case b.SortOrder != nil:
			return false
		default:
			return a.Name < b.Name
		}
	})
}

// BuildPathToRoot computes the ordered slug sequence from the department
// root down to entry. The walk is bounded by the size of the entry set, so
// malformed data (self-parent, cycles) terminates: a cycle returns
// ErrEntryCycle, a missing parent returns the path built so far together
// with ErrDanglingParent.
func BuildPathToRoot(byID map[string]models.Entry, entry models.Entry) ([]string, error) {
	path := []string{entry.Slug}
	seen := map[string]bool{entry.ID: true}

	current := entry
	for steps := 0; current.ParentID != nil; steps++ {
		if steps > len(byID) {
			return nil, ErrEntryCycle
		}

		parent, ok := byID[*current.ParentID]
		if !ok {
			return path, ErrDanglingParent
		}
		if seen[parent.ID] {
			return nil, ErrEntryCycle
		}
		seen[parent.ID] = true

		path = append([]string{parent.Slug}, path...)
		current = parent
	}

	return path, nil
}

// ResolveRoute walks an ordered list of slugs through the children index,
// one slug per level starting at the top. Returns (nil, false) when any
// segment fails to match; an empty segment list addresses the department
// root, also (nil, false). Frame placements are leaves: once a segment
// resolves to one, remaining segments are not consumed and the placement is
// the result.
func ResolveRoute(children map[string][]models.Entry, segments []string) (*models.Entry, bool) {
	parentKey := ""
	var found *models.Entry

	for _, segment := range segments {
		var match *models.Entry
		for i := range children[parentKey] {
			if children[parentKey][i].Slug == segment {
				match = &children[parentKey][i]
				break
			}
		}
		if match == nil {
			return nil, false
		}

		found = match
		if !match.IsFolder() {
			break
		}
		parentKey = match.ID
	}

	if found == nil {
		return nil, false
	}
	return found, true
}
