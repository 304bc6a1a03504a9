package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/store"
)

// exportVersion is bumped whenever the record layout changes.
const exportVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	PresetCount int       `json:"preset_count"`
}

// presetRecord is one exported preset. Summary is informational only.
type presetRecord struct {
	*model.FilterPreset
	Summary string `json:"summary"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every filter preset in the store as JSONL to w, sorted
// by ID. Stored filters are already sanitised by the store, so legacy
// presets are exported in the current format.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	presets, err := s.ListFilterPresets(ctx)
	if err != nil {
		return fmt.Errorf("list presets: %w", err)
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].ID < presets[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     exportVersion,
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		PresetCount: len(presets),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range presets {
		rec := record{Type: "preset", Data: presetRecord{FilterPreset: p, Summary: model.Describe(p.Filters)}}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode preset %s: %w", p.ID, err)
		}
	}

	return nil
}
