// Package server exposes the media library and its filter engine over
// HTTP/JSON.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/medialib/internal/events"
	"github.com/alfredjeanlab/medialib/internal/store"
)

// MediaServer serves the HTTP API backed by a store. Changes are published
// through publisher after they are committed.
type MediaServer struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewMediaServer returns a new MediaServer backed by the given store and publisher.
func NewMediaServer(s store.Store, p events.Publisher, logger *slog.Logger) *MediaServer {
	if p == nil {
		p = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaServer{store: s, publisher: p, logger: logger}
}

// publish emits an event. Failures are logged and never reach the caller.
func (s *MediaServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
