package store

import (
	"context"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// Store defines the persistence interface for the media library.
type Store interface {
	// Media
	CreateMedia(ctx context.Context, media *model.Media) error
	GetMedia(ctx context.Context, id string) (*model.Media, error)
	ListMedia(ctx context.Context, q model.MediaQuery) ([]*model.Media, int, error) // returns media, total count, error
	DeleteMedia(ctx context.Context, id string) error

	// Tags
	AddTag(ctx context.Context, mediaID, tagID string) error
	RemoveTag(ctx context.Context, mediaID, tagID string) error
	GetTags(ctx context.Context, mediaID string) ([]string, error)

	// Shoots
	AddToShoot(ctx context.Context, mediaID, shootID string) error
	RemoveFromShoot(ctx context.Context, mediaID, shootID string) error
	GetShoots(ctx context.Context, mediaID string) ([]string, error)

	// Posts
	CreatePost(ctx context.Context, post *model.Post) error

	// Filter presets
	SaveFilterPreset(ctx context.Context, preset *model.FilterPreset) error
	GetFilterPreset(ctx context.Context, id string) (*model.FilterPreset, error)
	ListFilterPresets(ctx context.Context) ([]*model.FilterPreset, error)
	DeleteFilterPreset(ctx context.Context, id string) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
