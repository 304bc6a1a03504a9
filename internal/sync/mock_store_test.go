package sync

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/store"
)

// mockStore is a minimal in-memory store for sync tests. Only presets are
// backed by data; media operations are no-ops.
type mockStore struct {
	presets map[string]*model.FilterPreset
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{presets: make(map[string]*model.FilterPreset)}
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateMedia(context.Context, *model.Media) error { return nil }

func (m *mockStore) GetMedia(context.Context, string) (*model.Media, error) {
	return nil, sql.ErrNoRows
}

func (m *mockStore) ListMedia(context.Context, model.MediaQuery) ([]*model.Media, int, error) {
	return nil, 0, nil
}

func (m *mockStore) DeleteMedia(context.Context, string) error            { return sql.ErrNoRows }
func (m *mockStore) AddTag(context.Context, string, string) error         { return nil }
func (m *mockStore) RemoveTag(context.Context, string, string) error      { return nil }
func (m *mockStore) GetTags(context.Context, string) ([]string, error)    { return nil, nil }
func (m *mockStore) AddToShoot(context.Context, string, string) error     { return nil }
func (m *mockStore) RemoveFromShoot(context.Context, string, string) error { return nil }
func (m *mockStore) GetShoots(context.Context, string) ([]string, error)  { return nil, nil }
func (m *mockStore) CreatePost(context.Context, *model.Post) error        { return nil }

func (m *mockStore) SaveFilterPreset(_ context.Context, p *model.FilterPreset) error {
	m.presets[p.ID] = p
	return nil
}

func (m *mockStore) GetFilterPreset(_ context.Context, id string) (*model.FilterPreset, error) {
	p, ok := m.presets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockStore) ListFilterPresets(context.Context) ([]*model.FilterPreset, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.FilterPreset
	for _, p := range m.presets {
		out = append(out, p)
	}
	// Deliberately not sorted by ID so the exporter's ordering is tested.
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

var errBoom = errors.New("boom")
