package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// maxBodyBytes caps request bodies; filter payloads are small.
const maxBodyBytes = 1 << 20

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *MediaServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	mux.HandleFunc("GET /v1/media", s.handleListMedia)
	mux.HandleFunc("POST /v1/media/search", s.handleSearchMedia)
	mux.HandleFunc("POST /v1/media", s.handleCreateMedia)
	mux.HandleFunc("GET /v1/media/{id}", s.handleGetMedia)
	mux.HandleFunc("DELETE /v1/media/{id}", s.handleDeleteMedia)
	mux.HandleFunc("POST /v1/media/{id}/tags", s.handleAddTag)
	mux.HandleFunc("DELETE /v1/media/{id}/tags/{tag}", s.handleRemoveTag)
	mux.HandleFunc("POST /v1/media/{id}/shoots", s.handleAddToShoot)
	mux.HandleFunc("POST /v1/posts", s.handleCreatePost)

	mux.HandleFunc("POST /v1/filters/sanitize", s.handleSanitizeFilters)
	mux.HandleFunc("POST /v1/filters/merge", s.handleMergeFilters)
	mux.HandleFunc("POST /v1/filters/describe", s.handleDescribeFilters)
	mux.HandleFunc("POST /v1/filters/compile", s.handleCompileFilters)
	mux.HandleFunc("POST /v1/filters/validate", s.handleValidateFilters)

	mux.HandleFunc("GET /v1/presets", s.handleListPresets)
	mux.HandleFunc("POST /v1/presets", s.handleCreatePreset)
	mux.HandleFunc("GET /v1/presets/{id}", s.handleGetPreset)
	mux.HandleFunc("PUT /v1/presets/{id}", s.handleUpdatePreset)
	mux.HandleFunc("DELETE /v1/presets/{id}", s.handleDeletePreset)

	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = LoggingMiddleware(s.logger, h)
	h = RecoveryMiddleware(s.logger, h)
	return h
}

// handleHealth handles GET /v1/health.
func (s *MediaServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeValidationError writes a 400 listing every field error.
func writeValidationError(w http.ResponseWriter, ve *model.ValidationError) {
	fields := make([]fieldErrorJSON, len(ve.Errors))
	for i, fe := range ve.Errors {
		fields[i] = fieldErrorJSON{Field: fe.Field, Message: fe.Message}
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  ve.Error(),
		"fields": fields,
	})
}

// writeStoreError maps err to a status code: not found, invalid input,
// validation, or internal. what names the resource in messages.
func (s *MediaServer) writeStoreError(w http.ResponseWriter, err error, what string) {
	var (
		ie inputError
		ve *model.ValidationError
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &ve):
		writeValidationError(w, ve)
	default:
		s.logger.Error("request failed", "resource", what, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process "+what)
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return inputError("invalid JSON body")
	}
	return nil
}

// readRawBody returns the request body, which may be empty.
func readRawBody(r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, inputError("failed to read body")
	}
	return data, nil
}

// queryInt parses a non-negative integer query parameter. Missing means 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, inputError(name + " must be a non-negative integer")
	}
	return n, nil
}
