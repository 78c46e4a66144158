package directory

import (
	"time"
)

// Entry is a node in a department's directory tree. An entry is either a
// folder (FrameID nil) or a placement of a frame (FrameID set). Placements
// are always leaves.
type Entry struct {
	ID           string    `json:"id" db:"id"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	ParentID     *string   `json:"parent_id" db:"parent_id"` // NULL = top level of the department
	FrameID      *string   `json:"frame_id" db:"frame_id"`   // NULL = folder
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Emoji        *string   `json:"emoji,omitempty" db:"emoji"`
	SortOrder    *int      `json:"sort_order,omitempty" db:"sort_order"`
	CreatedBy    string    `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy    string    `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsFolder reports whether the entry is a folder rather than a frame placement.
func (e *Entry) IsFolder() bool {
	return e.FrameID == nil
}

// ParentKey returns the map key used for grouping entries by parent.
// Root-level entries group under the empty string.
func (e *Entry) ParentKey() string {
	if e.ParentID == nil {
		return ""
	}
	return *e.ParentID
}
