package directory

import (
	"context"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/models/directory"
)

// FavoriteRepository defines data access operations for user favorites
type FavoriteRepository interface {
	// Create inserts a favorite
	Create(ctx context.Context, fav *directory.Favorite) error

	// Delete deletes a favorite by id
	Delete(ctx context.Context, id string) error

	// FindByTarget finds a user's favorite for the given target.
	// Returns (nil, nil) when no favorite exists; absence is not an error.
	FindByTarget(ctx context.Context, userID string, target directory.Target) (*directory.Favorite, error)

	// ListByUser retrieves a user's favorites, newest first
	ListByUser(ctx context.Context, userID string) ([]directory.Favorite, error)

	// DeleteByEntry removes favorites pointing at an entry (cleanup on entry delete)
	DeleteByEntry(ctx context.Context, entryID string) error
}

// SettingRepository defines data access operations for portal settings
type SettingRepository interface {
	// Get retrieves a setting by key.
	// Returns (nil, nil) when the key has never been written.
	Get(ctx context.Context, key string) (*directory.Setting, error)

	// Upsert inserts or replaces a setting
	Upsert(ctx context.Context, setting *directory.Setting) error
}
