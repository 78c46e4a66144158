package directory

import (
	"time"
)

// Frame is the logical identity of an embeddable page. A frame can be placed
// in several folders at once; each placement is a separate Entry carrying the
// frame's name/slug/emoji, kept in sync on edit.
type Frame struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	IframeURL     string    `json:"iframe_url" db:"iframe_url"`
	Description   *string   `json:"description,omitempty" db:"description"`
	DepartmentIDs []string  `json:"department_ids" db:"department_ids"` // empty = visible to all
	CreatedBy     string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// VisibleTo reports whether a member of the given department may see the frame.
func (f *Frame) VisibleTo(departmentID string) bool {
	if len(f.DepartmentIDs) == 0 {
		return true
	}
	for _, id := range f.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
