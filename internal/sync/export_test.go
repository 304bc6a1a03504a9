package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/medialib/internal/model"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.PresetCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_WithPresets(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Names sort opposite to IDs so the ID ordering is observable.
	ms.presets["fp-zzz"] = &model.FilterPreset{ID: "fp-zzz", Name: "A", CreatedAt: now, UpdatedAt: now,
		Filters: model.MediaFilters{}}
	ms.presets["fp-aaa"] = &model.FilterPreset{ID: "fp-aaa", Name: "Z", CreatedAt: now, UpdatedAt: now,
		Filters: model.MediaFilters{{Include: true, Items: []model.FilterItem{model.TagItem("t1")}}}}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.PresetCount != 2 {
		t.Errorf("PresetCount = %d, want 2", h.PresetCount)
	}

	type exported struct {
		Type string `json:"type"`
		Data struct {
			ID      string             `json:"id"`
			Filters model.MediaFilters `json:"filters"`
			Summary string             `json:"summary"`
		} `json:"data"`
	}

	var first, second exported
	if err := json.Unmarshal([]byte(lines[1]), &first); err != nil {
		t.Fatalf("unmarshal first: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &second); err != nil {
		t.Fatalf("unmarshal second: %v", err)
	}

	if first.Type != "preset" || first.Data.ID != "fp-aaa" || second.Data.ID != "fp-zzz" {
		t.Fatalf("unexpected order: %s, %s", first.Data.ID, second.Data.ID)
	}
	if first.Data.Summary != "Include: Tag: t1" {
		t.Errorf("Summary = %q", first.Data.Summary)
	}
	if second.Data.Summary != "No filters" {
		t.Errorf("Summary = %q", second.Data.Summary)
	}
	if diff := cmp.Diff(ms.presets["fp-aaa"].Filters, first.Data.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(lines[2], `"filters":[]`) {
		t.Errorf("expected empty filters to export as [], got %s", lines[2])
	}
}

func TestExportJSONL_ListError(t *testing.T) {
	ms := newMockStore()
	ms.listErr = errBoom
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
