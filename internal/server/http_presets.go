package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/medialib/internal/events"
	"github.com/alfredjeanlab/medialib/internal/idgen"
	"github.com/alfredjeanlab/medialib/internal/model"
)

// presetInput is the body of POST and PUT /v1/presets.
type presetInput struct {
	Name    string          `json:"name"`
	Filters json.RawMessage `json:"filters"`
}

// presetResponse adds the rendered summary to a stored preset.
type presetResponse struct {
	*model.FilterPreset
	Summary string `json:"summary"`
}

func newPresetResponse(p *model.FilterPreset) presetResponse {
	return presetResponse{FilterPreset: p, Summary: model.Describe(p.Filters)}
}

// handleListPresets handles GET /v1/presets.
func (s *MediaServer) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.store.ListFilterPresets(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "presets")
		return
	}

	out := make([]presetResponse, len(presets))
	for i, p := range presets {
		out[i] = newPresetResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": out})
}

// handleGetPreset handles GET /v1/presets/{id}.
func (s *MediaServer) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetFilterPreset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}
	writeJSON(w, http.StatusOK, newPresetResponse(p))
}

// savePreset copies in onto p, validates the result, and stores it.
func (s *MediaServer) savePreset(ctx context.Context, p *model.FilterPreset, in presetInput) error {
	filters, err := decodeFiltersStrict(in.Filters)
	if err != nil {
		return err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Filters = filters
	if err := model.ValidatePreset(p); err != nil {
		return err
	}
	if err := s.store.SaveFilterPreset(ctx, p); err != nil {
		return err
	}

	s.publish(ctx, events.TopicPresetSaved, events.PresetSaved{Preset: p, Summary: model.Describe(p.Filters)})
	return nil
}

// handleCreatePreset handles POST /v1/presets.
func (s *MediaServer) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var in presetInput
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}

	id, err := idgen.Preset()
	if err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}
	p := &model.FilterPreset{ID: id}
	if err := s.savePreset(r.Context(), p, in); err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}
	writeJSON(w, http.StatusCreated, newPresetResponse(p))
}

// handleUpdatePreset handles PUT /v1/presets/{id}. The preset must exist.
func (s *MediaServer) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var in presetInput
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}

	p, err := s.store.GetFilterPreset(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}
	if err := s.savePreset(r.Context(), p, in); err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}
	writeJSON(w, http.StatusOK, newPresetResponse(p))
}

// handleDeletePreset handles DELETE /v1/presets/{id}.
func (s *MediaServer) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteFilterPreset(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "preset")
		return
	}

	s.publish(r.Context(), events.TopicPresetDeleted, events.PresetDeleted{PresetID: id})
	w.WriteHeader(http.StatusNoContent)
}
