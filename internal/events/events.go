// Package events publishes library changes to a message bus so other
// processes (the CLI watch command, sync workers) can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// Event topic constants
const (
	TopicMediaCreated = "medialib.media.created"
	TopicMediaDeleted = "medialib.media.deleted"
	TopicMediaTagged  = "medialib.media.tagged"
	TopicPostCreated  = "medialib.post.created"

	TopicPresetSaved   = "medialib.preset.saved"
	TopicPresetDeleted = "medialib.preset.deleted"

	// TopicPresets matches the preset topics.
	TopicPresets = "medialib.preset.*"

	// TopicAll matches every topic above.
	TopicAll = "medialib.>"
)

// Event types

type MediaCreated struct {
	Media *model.Media `json:"media"`
}

type MediaDeleted struct {
	MediaID string `json:"media_id"`
}

type MediaTagged struct {
	MediaID string `json:"media_id"`
	TagID   string `json:"tag_id"`
}

type PostCreated struct {
	Post *model.Post `json:"post"`
}

// PresetSaved carries the stored preset and its one-line summary.
type PresetSaved struct {
	Preset  *model.FilterPreset `json:"preset"`
	Summary string              `json:"summary"`
}

type PresetDeleted struct {
	PresetID string `json:"preset_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Decode unmarshals a payload received on topic into its event type.
func Decode(topic string, data []byte) (any, error) {
	var ev any
	switch topic {
	case TopicMediaCreated:
		ev = &MediaCreated{}
	case TopicMediaDeleted:
		ev = &MediaDeleted{}
	case TopicMediaTagged:
		ev = &MediaTagged{}
	case TopicPostCreated:
		ev = &PostCreated{}
	case TopicPresetSaved:
		ev = &PresetSaved{}
	case TopicPresetDeleted:
		ev = &PresetDeleted{}
	default:
		return nil, fmt.Errorf("unknown topic %q", topic)
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", topic, err)
	}
	return ev, nil
}
