package directory

import (
	"time"
)

// Favorite is a user's pinned shortcut. Exactly one of EntryID, DepartmentID
// and ArticlePath is set.
type Favorite struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	EntryID      *string   `json:"entry_id,omitempty" db:"entry_id"`
	DepartmentID *string   `json:"department_id,omitempty" db:"department_id"`
	ArticlePath  *string   `json:"article_path,omitempty" db:"article_path"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Target identifies what a favorite points at.
type Target struct {
	EntryID      *string `json:"entry_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	ArticlePath  *string `json:"article_path,omitempty"`
}

// Valid reports whether exactly one target field is set.
func (t Target) Valid() bool {
	n := 0
	if t.EntryID != nil && *t.EntryID != "" {
		n++
	}
	if t.DepartmentID != nil && *t.DepartmentID != "" {
		n++
	}
	if t.ArticlePath != nil && *t.ArticlePath != "" {
		n++
	}
	return n == 1
}
