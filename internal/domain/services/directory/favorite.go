package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
)

// FavoriteService handles user favorites
type FavoriteService interface {
	// Toggle pins the target for the user, or unpins it if already pinned.
	// Returns the favorite and true when pinned, (nil, false) when unpinned.
	Toggle(ctx context.Context, userID string, target directory.Target) (*directory.Favorite, bool, error)

	// List retrieves the user's favorites, newest first
	List(ctx context.Context, userID string) ([]directory.Favorite, error)
}

// SettingService handles portal configuration
type SettingService interface {
	// Get retrieves a setting value. Returns ("", nil) for unset keys.
	Get(ctx context.Context, key string) (string, error)

	// Put writes a setting value
	Put(ctx context.Context, key, value, actorID string) error

	// DepartmentOrder returns the admin-pinned department navigation order.
	// Departments missing from the stored order sort after it, by name.
	DepartmentOrder(ctx context.Context) ([]string, error)

	// SetDepartmentOrder pins the department navigation order
	SetDepartmentOrder(ctx context.Context, ids []string, actorID string) error
}
