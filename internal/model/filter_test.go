package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestItemKind_IsKnown(t *testing.T) {
	for _, tc := range []struct {
		kind ItemKind
		want bool
	}{
		{KindChannel, true},
		{KindSubreddit, true},
		{KindTag, true},
		{KindShoot, true},
		{KindFilename, true},
		{KindCaption, true},
		{KindPosted, true},
		{KindMediaType, true},
		{KindCreatedDateStart, true},
		{KindCreatedDateEnd, true},
		{ItemKind(""), false},
		{ItemKind("futureThing"), false},
	} {
		if got := tc.kind.IsKnown(); got != tc.want {
			t.Errorf("ItemKind(%q).IsKnown() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestFilterItem_UnmarshalJSON(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		name string
		in   string
		want FilterItem
	}{
		{"Channel", `{"kind":"channel","id":"c1"}`, ChannelItem("c1")},
		{"TagWithValue", `{"kind":"tag","value":"t1"}`, TagItem("t1")},
		{"Filename", `{"kind":"filename","value":"beach"}`, FilenameItem("beach")},
		{"Posted", `{"kind":"posted","value":false}`, PostedItem(false)},
		{"MediaType", `{"kind":"mediaType","value":"video"}`, MediaTypeItem(MediaTypeVideo)},
		{"DateOnly", `{"kind":"createdDateStart","value":"2024-03-01"}`, CreatedAfterItem(day)},
		{"RFC3339", `{"kind":"createdDateEnd","value":"2024-03-01T00:00:00Z"}`, CreatedBeforeItem(day)},
		{"Unknown", `{"kind":"futureThing","value":1}`, FilterItem{Kind: "futureThing", Raw: json.RawMessage(`1`)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got FilterItem
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("item mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterItem_UnmarshalJSON_BadValue(t *testing.T) {
	for _, in := range []string{
		`{"kind":"posted","value":"yes"}`,
		`{"kind":"filename"}`,
		`{"kind":"createdDateStart","value":"not a date"}`,
		`{"kind":"tag"}`,
	} {
		var it FilterItem
		if err := json.Unmarshal([]byte(in), &it); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", in)
		}
	}
}

func TestFilterItem_MarshalJSON(t *testing.T) {
	for _, tc := range []struct {
		item FilterItem
		want string
	}{
		{ShootItem("s1"), `{"kind":"shoot","id":"s1"}`},
		{CaptionItem("hi"), `{"kind":"caption","value":"hi"}`},
		{PostedItem(true), `{"kind":"posted","value":true}`},
		{MediaTypeItem(MediaTypeImage), `{"kind":"mediaType","value":"image"}`},
		{CreatedAfterItem(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), `{"kind":"createdDateStart","value":"2024-01-02T00:00:00Z"}`},
		{FilterItem{Kind: "futureThing", Raw: json.RawMessage(`1`)}, `{"kind":"futureThing","value":1}`},
	} {
		data, err := json.Marshal(tc.item)
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.item.Kind, err)
		}
		if string(data) != tc.want {
			t.Errorf("Marshal(%s) = %s, want %s", tc.item.Kind, data, tc.want)
		}
	}
}

func TestMediaFilters_CountItems(t *testing.T) {
	f := MediaFilters{
		{Include: true, Items: []FilterItem{TagItem("a"), TagItem("b")}},
		{Include: false},
		{Include: false, Items: []FilterItem{ShootItem("s")}},
	}
	if got := f.CountItems(); got != 3 {
		t.Errorf("CountItems() = %d, want 3", got)
	}
	if f.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !f[1].IsEmpty() {
		t.Error("group without items should be empty")
	}
	if !(MediaFilters{}).IsEmpty() {
		t.Error("empty filters should be empty")
	}
}

func TestMediaFilters_MarshalNil(t *testing.T) {
	var f MediaFilters
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("Marshal(nil) = %s, want []", data)
	}
}
