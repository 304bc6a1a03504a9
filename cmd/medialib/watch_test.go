package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/medialib/internal/events"
	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/ui"
)

// fakeSubscriber delivers a fixed set of messages, then closes.
type fakeSubscriber struct {
	msgs []events.Message
}

func (f *fakeSubscriber) Subscribe(string) (<-chan events.Message, func(), error) {
	ch := make(chan events.Message, len(f.msgs))
	for _, m := range f.msgs {
		ch <- m
	}
	close(ch)
	return ch, func() {}, nil
}

func (f *fakeSubscriber) Close() error { return nil }

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestWatchEvents(t *testing.T) {
	ui.ForceNoColor()
	sub := &fakeSubscriber{msgs: []events.Message{
		{Topic: events.TopicMediaTagged, Data: mustMarshal(t, events.MediaTagged{MediaID: "md-1", TagID: "t1"})},
		{Topic: events.TopicPresetSaved, Data: mustMarshal(t, events.PresetSaved{
			Preset:  &model.FilterPreset{ID: "fp-1", Name: "Videos"},
			Summary: "Include: Type: video",
		})},
		{Topic: "medialib.unknown", Data: []byte(`{}`)},
	}}

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := watchEvents(ctx, sub, events.TopicAll, &out); err != nil {
		t.Fatalf("watchEvents: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	for i, want := range []string{
		"media.tagged md-1 +t1",
		`preset.saved fp-1 "Videos": Include: Type: video`,
		`unknown topic "medialib.unknown"`,
	} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestDescribeEvent(t *testing.T) {
	ui.ForceNoColor()
	for _, tc := range []struct {
		ev   any
		want string
	}{
		{&events.MediaCreated{Media: &model.Media{ID: "md-1", RelativePath: "a.jpg", Type: model.MediaTypeImage}}, "md-1 a.jpg (image)"},
		{&events.MediaDeleted{MediaID: "md-2"}, "md-2"},
		{&events.PostCreated{Post: &model.Post{ID: "po-1", ChannelID: "ch1", Status: model.PostStatusDraft, MediaIDs: []string{"md-1"}}}, "po-1 on ch1 (draft, 1 media)"},
		{&events.PresetDeleted{PresetID: "fp-9"}, "fp-9"},
	} {
		if got := describeEvent(tc.ev); got != tc.want {
			t.Errorf("describeEvent(%T) = %q, want %q", tc.ev, got, tc.want)
		}
	}
}
