package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mergeFixtures() map[string][]FilterGroup {
	return map[string][]FilterGroup{
		"Nil":   nil,
		"Empty": {{Include: true}, {Include: false, Items: []FilterItem{}}},
		"Mixed": {
			{Include: false, Items: []FilterItem{ShootItem("s1")}},
			{Include: true, Items: []FilterItem{TagItem("t1"), PostedItem(true)}},
			{Include: false, Items: []FilterItem{FilenameItem("raw")}},
			{Include: true, Items: []FilterItem{ChannelItem("c1")}},
		},
		"IncludeOnly": {
			{Include: true, Items: []FilterItem{TagItem("a")}},
			{Include: true, Items: []FilterItem{TagItem("b")}},
		},
		"ExcludeOnly": {
			{Include: false, Items: []FilterItem{TagItem("a")}},
		},
	}
}

func TestMergeGroups(t *testing.T) {
	got := MergeGroups(mergeFixtures()["Mixed"])
	want := MediaFilters{
		{Include: true, Items: []FilterItem{TagItem("t1"), PostedItem(true), ChannelItem("c1")}},
		{Include: false, Items: []FilterItem{ShootItem("s1"), FilenameItem("raw")}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeGroups mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeGroups_Shapes(t *testing.T) {
	for _, tc := range []struct {
		name       string
		wantGroups int
	}{
		{"Nil", 0},
		{"Empty", 0},
		{"Mixed", 2},
		{"IncludeOnly", 1},
		{"ExcludeOnly", 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeGroups(mergeFixtures()[tc.name])
			if len(got) != tc.wantGroups {
				t.Fatalf("got %d groups, want %d", len(got), tc.wantGroups)
			}
			if len(got) == 2 && (!got[0].Include || got[1].Include) {
				t.Error("include group must come before exclude group")
			}
		})
	}
}

func TestMergeGroups_IdempotentAndCountPreserving(t *testing.T) {
	for name, groups := range mergeFixtures() {
		t.Run(name, func(t *testing.T) {
			once := MergeGroups(groups)
			twice := MergeGroups(once)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("merge not idempotent (-once +twice):\n%s", diff)
			}
			if got, want := once.CountItems(), MediaFilters(groups).CountItems(); got != want {
				t.Errorf("CountItems after merge = %d, want %d", got, want)
			}
		})
	}
}

func TestMergeGroups_DoesNotMutateInput(t *testing.T) {
	groups := mergeFixtures()["IncludeOnly"]
	_ = MergeGroups(groups)
	if len(groups[0].Items) != 1 || groups[0].Items[0].ID != "a" {
		t.Errorf("input group modified: %+v", groups[0])
	}
}
