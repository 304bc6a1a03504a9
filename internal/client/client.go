// Package client provides a transport-agnostic interface for the medialib
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// MediaClient is the interface that CLI commands use to talk to a medialib
// server. It is implemented by HTTPClient.
type MediaClient interface {
	// Media
	ListMedia(ctx context.Context, req *ListMediaRequest) (*ListMediaResponse, error)
	SearchMedia(ctx context.Context, req *ListMediaRequest) (*ListMediaResponse, error)
	CreateMedia(ctx context.Context, req *CreateMediaRequest) (*model.Media, error)
	GetMedia(ctx context.Context, id string) (*model.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	AddTag(ctx context.Context, mediaID, tagID string) ([]string, error)
	RemoveTag(ctx context.Context, mediaID, tagID string) error
	AddToShoot(ctx context.Context, mediaID, shootID string) ([]string, error)

	// Posts
	CreatePost(ctx context.Context, req *CreatePostRequest) (*model.Post, error)

	// Filters
	SanitizeFilters(ctx context.Context, raw json.RawMessage) (*SanitizeResponse, error)
	MergeFilters(ctx context.Context, raw json.RawMessage) (model.MediaFilters, error)
	DescribeFilters(ctx context.Context, raw json.RawMessage, opts DescribeOptions) (string, error)
	CompileFilters(ctx context.Context, raw json.RawMessage, dialect string) (*CompileResponse, error)
	ValidateFilters(ctx context.Context, raw json.RawMessage) (*ValidateResponse, error)

	// Presets
	ListPresets(ctx context.Context) ([]*Preset, error)
	GetPreset(ctx context.Context, id string) (*Preset, error)
	CreatePreset(ctx context.Context, req *PresetRequest) (*Preset, error)
	UpdatePreset(ctx context.Context, id string, req *PresetRequest) (*Preset, error)
	DeletePreset(ctx context.Context, id string) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ListMediaRequest holds parameters for listing or searching media. Filters
// is sent verbatim and may be in the legacy object format.
type ListMediaRequest struct {
	Filters json.RawMessage `json:"filters,omitempty"`
	Sort    string          `json:"sort,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// ListMediaResponse is one page of media plus the rendered filter summary.
type ListMediaResponse struct {
	Media   []*model.Media `json:"media"`
	Total   int            `json:"total"`
	Summary string         `json:"summary"`
}

// CreateMediaRequest holds parameters for registering a media file.
type CreateMediaRequest struct {
	RelativePath string          `json:"relative_path"`
	Name         string          `json:"name,omitempty"`
	Type         model.MediaType `json:"type,omitempty"`
	Size         int64           `json:"size,omitempty"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Shoots       []string        `json:"shoots,omitempty"`
}

// CreatePostRequest holds parameters for creating a post.
type CreatePostRequest struct {
	ChannelID   string           `json:"channel_id"`
	SubredditID string           `json:"subreddit_id,omitempty"`
	Caption     string           `json:"caption,omitempty"`
	Status      model.PostStatus `json:"status,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	MediaIDs    []string         `json:"media_ids"`
}

// SanitizeResponse is the current-format equivalent of a stored filter value.
type SanitizeResponse struct {
	Filters model.MediaFilters `json:"filters"`
	Legacy  bool               `json:"legacy"`
}

// DescribeOptions controls how dates are rendered in a summary.
type DescribeOptions struct {
	Layout   string
	TimeZone string
}

// CompiledParam is one bound parameter of a compiled WHERE clause.
type CompiledParam struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Value       any    `json:"value"`
}

// CompileResponse is the SQL rendering of a filter set.
type CompileResponse struct {
	Dialect string          `json:"dialect"`
	Where   string          `json:"where"`
	Clauses []string        `json:"clauses"`
	Params  []CompiledParam `json:"params"`
}

// FieldError is a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateResponse reports whether a filter value would be accepted on write.
type ValidateResponse struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// PresetRequest holds parameters for creating or replacing a preset.
type PresetRequest struct {
	Name    string          `json:"name"`
	Filters json.RawMessage `json:"filters,omitempty"`
}

// Preset is a stored filter preset with its rendered summary.
type Preset struct {
	model.FilterPreset
	Summary string `json:"summary"`
}
