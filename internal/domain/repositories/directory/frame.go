package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
)

// FrameRepository defines data access operations for frames
type FrameRepository interface {
	// Create inserts a new frame
	Create(ctx context.Context, frame *directory.Frame) error

	// GetByID retrieves a frame by ID
	GetByID(ctx context.Context, id string) (*directory.Frame, error)

	// Update updates a frame
	Update(ctx context.Context, frame *directory.Frame) error

	// Delete deletes a frame row. Placements must already be gone; the
	// service owns the ordering.
	Delete(ctx context.Context, id string) error

	// List retrieves all frames, newest first
	List(ctx context.Context) ([]directory.Frame, error)
}

// DepartmentRepository provides read access to the HR-synced department table
type DepartmentRepository interface {
	// GetByID retrieves a department by ID
	GetByID(ctx context.Context, id string) (*directory.Department, error)

	// List retrieves all departments ordered by name
	List(ctx context.Context) ([]directory.Department, error)
}
