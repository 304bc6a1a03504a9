package model

import "time"

// PostStatus is the lifecycle state of a scheduled post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPosted    PostStatus = "posted"
)

// IsValid checks whether the status is a known value.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPosted:
		return true
	}
	return false
}

// Media is a file in the content library.
type Media struct {
	ID           string    `json:"id"`
	RelativePath string    `json:"relative_path"`
	Name         string    `json:"name"`
	Type         MediaType `json:"type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relational data -- populated by queries, not stored in the media table.
	Tags   []string `json:"tags,omitempty"`
	Shoots []string `json:"shoots,omitempty"`
}

// Post schedules one or more media items on a channel.
type Post struct {
	ID          string     `json:"id"`
	ChannelID   string     `json:"channel_id"`
	SubredditID string     `json:"subreddit_id,omitempty"`
	Caption     string     `json:"caption,omitempty"`
	Status      PostStatus `json:"status"`
	Date        time.Time  `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
	MediaIDs    []string   `json:"media_ids"`
}

// FilterPreset is a named, stored MediaFilters value.
type FilterPreset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Filters   MediaFilters `json:"filters"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// MediaQuery holds criteria for listing media.
type MediaQuery struct {
	Filters MediaFilters `json:"filters"`
	Sort    string       `json:"sort,omitempty"` // e.g. "-created_at", "name"; prefix "-" = descending
	Limit   int          `json:"limit,omitempty"`
	Offset  int          `json:"offset,omitempty"`
}
