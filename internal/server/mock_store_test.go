package server

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/store"
)

// mockStore is an in-memory store. ListMedia ignores filters and records
// the query it was given so tests can assert on what the handler built.
type mockStore struct {
	media   map[string]*model.Media
	tags    map[string][]string
	shoots  map[string][]string
	posts   map[string]*model.Post
	presets map[string]*model.FilterPreset

	lastQuery *model.MediaQuery

	// listErr, when non-nil, is returned by ListMedia.
	listErr error
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		media:   make(map[string]*model.Media),
		tags:    make(map[string][]string),
		shoots:  make(map[string][]string),
		posts:   make(map[string]*model.Post),
		presets: make(map[string]*model.FilterPreset),
	}
}

func (m *mockStore) CreateMedia(_ context.Context, media *model.Media) error {
	m.media[media.ID] = media
	return nil
}

func (m *mockStore) GetMedia(_ context.Context, id string) (*model.Media, error) {
	media, ok := m.media[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *media
	clone.Tags = m.tags[id]
	clone.Shoots = m.shoots[id]
	return &clone, nil
}

func (m *mockStore) ListMedia(_ context.Context, q model.MediaQuery) ([]*model.Media, int, error) {
	m.lastQuery = &q
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []*model.Media
	for _, media := range m.media {
		out = append(out, media)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockStore) DeleteMedia(_ context.Context, id string) error {
	if _, ok := m.media[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.media, id)
	return nil
}

func (m *mockStore) AddTag(_ context.Context, mediaID, tagID string) error {
	for _, t := range m.tags[mediaID] {
		if t == tagID {
			return nil
		}
	}
	m.tags[mediaID] = append(m.tags[mediaID], tagID)
	sort.Strings(m.tags[mediaID])
	return nil
}

func (m *mockStore) RemoveTag(_ context.Context, mediaID, tagID string) error {
	var kept []string
	for _, t := range m.tags[mediaID] {
		if t != tagID {
			kept = append(kept, t)
		}
	}
	m.tags[mediaID] = kept
	return nil
}

func (m *mockStore) GetTags(_ context.Context, mediaID string) ([]string, error) {
	return m.tags[mediaID], nil
}

func (m *mockStore) AddToShoot(_ context.Context, mediaID, shootID string) error {
	m.shoots[mediaID] = append(m.shoots[mediaID], shootID)
	return nil
}

func (m *mockStore) RemoveFromShoot(_ context.Context, mediaID, shootID string) error {
	return nil
}

func (m *mockStore) GetShoots(_ context.Context, mediaID string) ([]string, error) {
	return m.shoots[mediaID], nil
}

func (m *mockStore) CreatePost(_ context.Context, p *model.Post) error {
	m.posts[p.ID] = p
	return nil
}

func (m *mockStore) SaveFilterPreset(_ context.Context, p *model.FilterPreset) error {
	clone := *p
	m.presets[p.ID] = &clone
	return nil
}

func (m *mockStore) GetFilterPreset(_ context.Context, id string) (*model.FilterPreset, error) {
	p, ok := m.presets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (m *mockStore) ListFilterPresets(context.Context) ([]*model.FilterPreset, error) {
	var out []*model.FilterPreset
	for _, p := range m.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockStore) DeleteFilterPreset(_ context.Context, id string) error {
	if _, ok := m.presets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.presets, id)
	return nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
