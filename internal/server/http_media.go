package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alfredjeanlab/medialib/internal/events"
	"github.com/alfredjeanlab/medialib/internal/idgen"
	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/store"
)

// maxPageSize bounds a single media page.
const maxPageSize = 500

// imageExts and videoExts drive type inference when a client omits the type.
var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".heic": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".webm": true, ".mkv": true, ".m4v": true}
)

func inferMediaType(p string) model.MediaType {
	ext := strings.ToLower(path.Ext(p))
	switch {
	case imageExts[ext]:
		return model.MediaTypeImage
	case videoExts[ext]:
		return model.MediaTypeVideo
	}
	return ""
}

// searchInput is the body of POST /v1/media/search.
type searchInput struct {
	Filters json.RawMessage `json:"filters"`
	Sort    string          `json:"sort"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// handleListMedia handles GET /v1/media. The filters query parameter holds
// a raw JSON filter value, which may be in the legacy format.
func (s *MediaServer) handleListMedia(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.writeStoreError(w, err, "media")
		return
	}

	q := r.URL.Query()
	s.listMedia(r.Context(), w, searchInput{
		Filters: json.RawMessage(q.Get("filters")),
		Sort:    q.Get("sort"),
		Limit:   limit,
		Offset:  offset,
	})
}

// handleSearchMedia handles POST /v1/media/search.
func (s *MediaServer) handleSearchMedia(w http.ResponseWriter, r *http.Request) {
	var in searchInput
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	if in.Limit < 0 || in.Offset < 0 {
		writeError(w, http.StatusBadRequest, "limit and offset must be non-negative")
		return
	}
	s.listMedia(r.Context(), w, in)
}

func (s *MediaServer) listMedia(ctx context.Context, w http.ResponseWriter, in searchInput) {
	if in.Limit > maxPageSize {
		in.Limit = maxPageSize
	}
	mq := model.MediaQuery{
		Filters: model.Sanitize(in.Filters),
		Sort:    in.Sort,
		Limit:   in.Limit,
		Offset:  in.Offset,
	}

	media, total, err := s.store.ListMedia(ctx, mq)
	if err != nil {
		s.writeStoreError(w, err, "media")
		return
	}

	// Ensure media is never null in JSON output.
	if media == nil {
		media = []*model.Media{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"media":   media,
		"total":   total,
		"summary": model.Describe(mq.Filters),
	})
}

// createMediaInput is the body of POST /v1/media.
type createMediaInput struct {
	RelativePath string          `json:"relative_path"`
	Name         string          `json:"name"`
	Type         model.MediaType `json:"type"`
	Size         int64           `json:"size"`
	CreatedAt    *time.Time      `json:"created_at"`
	Tags         []string        `json:"tags"`
	Shoots       []string        `json:"shoots"`
}

func (s *MediaServer) createMedia(ctx context.Context, in createMediaInput) (*model.Media, error) {
	rel := strings.TrimSpace(in.RelativePath)
	if rel == "" {
		return nil, inputError("relative_path is required")
	}
	if in.Size < 0 {
		return nil, inputError("size must be non-negative")
	}
	typ := in.Type
	if typ == "" {
		typ = inferMediaType(rel)
	}
	if !typ.IsValid() {
		return nil, inputError("type must be image or video")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = path.Base(rel)
	}

	id, err := idgen.Media()
	if err != nil {
		return nil, err
	}
	m := &model.Media{
		ID:           id,
		RelativePath: rel,
		Name:         name,
		Type:         typ,
		Size:         in.Size,
	}
	if in.CreatedAt != nil {
		m.CreatedAt = in.CreatedAt.UTC()
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateMedia(ctx, m); err != nil {
			return err
		}
		for _, tag := range in.Tags {
			if err := tx.AddTag(ctx, m.ID, tag); err != nil {
				return err
			}
		}
		for _, shoot := range in.Shoots {
			if err := tx.AddToShoot(ctx, m.ID, shoot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.Tags = in.Tags
	m.Shoots = in.Shoots
	return m, nil
}

// handleCreateMedia handles POST /v1/media.
func (s *MediaServer) handleCreateMedia(w http.ResponseWriter, r *http.Request) {
	var in createMediaInput
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}

	m, err := s.createMedia(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, err, "media")
		return
	}

	s.publish(r.Context(), events.TopicMediaCreated, events.MediaCreated{Media: m})
	writeJSON(w, http.StatusCreated, m)
}

// handleGetMedia handles GET /v1/media/{id}.
func (s *MediaServer) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMedia(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMedia handles DELETE /v1/media/{id}.
func (s *MediaServer) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteMedia(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}

	s.publish(r.Context(), events.TopicMediaDeleted, events.MediaDeleted{MediaID: id})
	w.WriteHeader(http.StatusNoContent)
}

// handleAddTag handles POST /v1/media/{id}/tags.
func (s *MediaServer) handleAddTag(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in struct {
		TagID string `json:"tag_id"`
	}
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	if strings.TrimSpace(in.TagID) == "" {
		writeError(w, http.StatusBadRequest, "tag_id is required")
		return
	}

	if _, err := s.store.GetMedia(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	if err := s.store.AddTag(r.Context(), id, in.TagID); err != nil {
		s.writeStoreError(w, err, "tag")
		return
	}
	tags, err := s.store.GetTags(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "tag")
		return
	}

	s.publish(r.Context(), events.TopicMediaTagged, events.MediaTagged{MediaID: id, TagID: in.TagID})
	writeJSON(w, http.StatusOK, map[string]any{"media_id": id, "tags": tags})
}

// handleRemoveTag handles DELETE /v1/media/{id}/tags/{tag}.
func (s *MediaServer) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveTag(r.Context(), r.PathValue("id"), r.PathValue("tag")); err != nil {
		s.writeStoreError(w, err, "tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddToShoot handles POST /v1/media/{id}/shoots.
func (s *MediaServer) handleAddToShoot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in struct {
		ShootID string `json:"shoot_id"`
	}
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	if strings.TrimSpace(in.ShootID) == "" {
		writeError(w, http.StatusBadRequest, "shoot_id is required")
		return
	}

	if _, err := s.store.GetMedia(r.Context(), id); err != nil {
		s.writeStoreError(w, err, "media")
		return
	}
	if err := s.store.AddToShoot(r.Context(), id, in.ShootID); err != nil {
		s.writeStoreError(w, err, "shoot")
		return
	}
	shoots, err := s.store.GetShoots(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err, "shoot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"media_id": id, "shoots": shoots})
}

// createPostInput is the body of POST /v1/posts.
type createPostInput struct {
	ChannelID   string           `json:"channel_id"`
	SubredditID string           `json:"subreddit_id"`
	Caption     string           `json:"caption"`
	Status      model.PostStatus `json:"status"`
	Date        *time.Time       `json:"date"`
	MediaIDs    []string         `json:"media_ids"`
}

// handleCreatePost handles POST /v1/posts.
func (s *MediaServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in createPostInput
	if err := decodeBody(r, &in); err != nil {
		s.writeStoreError(w, err, "post")
		return
	}
	if strings.TrimSpace(in.ChannelID) == "" {
		writeError(w, http.StatusBadRequest, "channel_id is required")
		return
	}
	if len(in.MediaIDs) == 0 {
		writeError(w, http.StatusBadRequest, "media_ids must not be empty")
		return
	}
	if in.Status == "" {
		in.Status = model.PostStatusDraft
	}
	if !in.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "status must be draft, scheduled, or posted")
		return
	}

	id, err := idgen.Post()
	if err != nil {
		s.writeStoreError(w, err, "post")
		return
	}
	p := &model.Post{
		ID:          id,
		ChannelID:   in.ChannelID,
		SubredditID: in.SubredditID,
		Caption:     in.Caption,
		Status:      in.Status,
		MediaIDs:    in.MediaIDs,
	}
	if in.Date != nil {
		p.Date = in.Date.UTC()
	}

	err = s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		return tx.CreatePost(r.Context(), p)
	})
	if err != nil {
		s.writeStoreError(w, err, "post")
		return
	}

	s.publish(r.Context(), events.TopicPostCreated, events.PostCreated{Post: p})
	writeJSON(w, http.StatusCreated, p)
}
