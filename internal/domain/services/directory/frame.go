package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/httputil"
)

// FrameService handles frame (embedded page) business logic
type FrameService interface {
	// CreateFrame creates a frame and its initial placements in one
	// transaction. At least one placement is required.
	CreateFrame(ctx context.Context, req *CreateFrameRequest) (*directory.Frame, error)

	// GetFrame retrieves a frame by ID
	GetFrame(ctx context.Context, id string) (*directory.Frame, error)

	// ListFrames retrieves frames visible to a department.
	// An empty departmentID lists everything (admin surface).
	ListFrames(ctx context.Context, departmentID string) ([]directory.Frame, error)

	// UpdateFrame updates a frame's identity and, when placements are
	// supplied, reconciles them against the persisted set
	UpdateFrame(ctx context.Context, id string, req *UpdateFrameRequest) (*directory.Frame, error)

	// DeleteFrame deletes all placements of a frame, then the frame row.
	// The frame row survives if placement deletion fails.
	DeleteFrame(ctx context.Context, id string) error
}

// PlacementSyncer reconciles the persisted placements of one frame against a
// target set of folder locations.
type PlacementSyncer interface {
	// SyncPlacements makes the set of parent locations among the frame's
	// placements equal the target set exactly, assigning collision-free
	// slugs to new placements. Untouched locations see no churn.
	SyncPlacements(ctx context.Context, req *SyncPlacementsRequest) error
}

// CreateFrameRequest represents a frame creation request
type CreateFrameRequest struct {
	Name          string    `json:"name"`
	IframeURL     string    `json:"iframe_url"`
	Description   *string   `json:"description,omitempty"`
	DepartmentID  string    `json:"department_id"`            // home department for top-level placements
	DepartmentIDs []string  `json:"department_ids,omitempty"` // visibility; empty = everyone
	Slug          string    `json:"slug,omitempty"`           // defaults to slugified name
	Emoji         *string   `json:"emoji,omitempty"`
	Placements    []*string `json:"placements"` // target folder ids; nil element = home department top level
	ActorID       string    `json:"-"`
}

// UpdateFrameRequest represents a frame update request. Placements absent
// means "leave placements alone"; present means reconcile to exactly that set.
type UpdateFrameRequest struct {
	Name          *string                 `json:"name,omitempty"`
	IframeURL     *string                 `json:"iframe_url,omitempty"`
	Description   httputil.OptionalString `json:"description"`
	DepartmentIDs *[]string               `json:"department_ids,omitempty"`
	Slug          *string                 `json:"slug,omitempty"`
	Emoji         httputil.OptionalString `json:"emoji"`
	Placements    *[]*string              `json:"placements,omitempty"`
	ActorID       string                  `json:"-"`
}

// SyncPlacementsRequest carries the desired placement set for one frame
type SyncPlacementsRequest struct {
	FrameID      string
	Name         string
	BaseSlug     string
	Emoji        *string
	DepartmentID string    // home department, used for nil targets
	Targets      []*string // folder ids; nil = home department top level
	ActorID      string
}
