package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/medialib/internal/model"
)

func TestFilterDescribe(t *testing.T) {
	for _, tc := range []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"Empty", ``, nil, "No filters\n"},
		{"Legacy", `{"search":"sunset","excludeShoots":["s1"]}`, nil, "Include: Filename: \"sunset\" | Exclude: Shoot: s1\n"},
		{
			name:  "HuJSON",
			stdin: "[\n  // recent videos\n  {\"include\": true, \"items\": [{\"kind\": \"mediaType\", \"value\": \"video\"},],},\n]",
			want:  "Include: Type: video\n",
		},
		{
			name:  "LayoutAndZone",
			stdin: `[{"include":true,"items":[{"kind":"createdDateStart","value":"2024-03-01T03:00:00Z"}]}]`,
			args:  []string{"--layout", "2006-01-02", "--tz", "America/New_York"},
			want:  "Include: Created after: 2024-02-29\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, tc.stdin, append([]string{"filter", "describe"}, tc.args...)...)
			if err != nil {
				t.Fatalf("describe: %v", err)
			}
			if out != tc.want {
				t.Errorf("output = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestFilterDescribe_BadZone(t *testing.T) {
	if _, err := runCLI(t, `[]`, "filter", "describe", "--tz", "Mars/Olympus"); err == nil {
		t.Fatal("expected error for unknown time zone")
	}
}

func TestFilterSanitizeAndMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.json")
	in := `[
		{"include": true, "items": [{"kind": "tag", "id": "t1"}]},
		{"include": false, "items": [{"kind": "shoot", "id": "s1"}]},
		{"include": true, "items": [{"kind": "posted", "value": false}]},
	]`
	if err := os.WriteFile(path, []byte(in), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "filter", "merge", path)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	var merged model.MediaFilters
	if err := json.Unmarshal([]byte(out), &merged); err != nil {
		t.Fatalf("decode merge output: %v\n%s", err, out)
	}
	want := model.MediaFilters{
		{Include: true, Items: []model.FilterItem{model.TagItem("t1"), model.PostedItem(false)}},
		{Include: false, Items: []model.FilterItem{model.ShootItem("s1")}},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	out, err = runCLI(t, `{"caption":"beach"}`, "filter", "sanitize", "-")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	var sanitized model.MediaFilters
	if err := json.Unmarshal([]byte(out), &sanitized); err != nil {
		t.Fatalf("decode sanitize output: %v\n%s", err, out)
	}
	if diff := cmp.Diff(model.MediaFilters{{Include: true, Items: []model.FilterItem{model.CaptionItem("beach")}}}, sanitized); diff != "" {
		t.Errorf("sanitize mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterCompile(t *testing.T) {
	in := `[{"include":false,"items":[{"kind":"mediaType","value":"video"}]}]`

	out, err := runCLI(t, in, "filter", "compile", "--dialect", "sqlite")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.HasPrefix(out, "WHERE media.type <> :mediaType0\n") {
		t.Errorf("unexpected SQL:\n%s", out)
	}
	if !strings.Contains(out, ":mediaType0  video") {
		t.Errorf("missing param row:\n%s", out)
	}

	out, err = runCLI(t, in, "--json", "filter", "compile")
	if err != nil {
		t.Fatalf("compile --json: %v", err)
	}
	var resp struct {
		Dialect string          `json:"dialect"`
		Where   string          `json:"where"`
		Params  []compiledParam `json:"params"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := []compiledParam{{Name: "mediaType0", Placeholder: "$1", Value: "video"}}
	if resp.Dialect != "postgres" || resp.Where != " WHERE media.type <> $1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if diff := cmp.Diff(want, resp.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCLI(t, in, "filter", "compile", "--dialect", "oracle"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestFilterCompile_NoConditions(t *testing.T) {
	out, err := runCLI(t, `{"foo":1}`, "filter", "compile")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out != "(no conditions)\n" {
		t.Errorf("output = %q", out)
	}
}

func TestFilterValidate(t *testing.T) {
	out, err := runCLI(t, `{"shootId":"s1"}`, "filter", "validate")
	if err != nil {
		t.Fatalf("validate legacy: %v", err)
	}
	if out != "valid\n" {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, `[{"include":true,"items":[{"kind":"tag","id":""},{"kind":"rating","value":3}]}]`, "filter", "validate")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"filters[0].items[0].id: is required", `filters[0].items[1]: unknown kind "rating"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, `{"page":2}`, "filter", "validate"); err == nil || !strings.Contains(err.Error(), "legacy filter object") {
		t.Errorf("expected shape error, got %v", err)
	}
}

func TestStandardizeFilters(t *testing.T) {
	got, err := standardizeFilters([]byte("  \n"))
	if err != nil || got != nil {
		t.Errorf("blank input = %q, %v; want nil, nil", got, err)
	}
	if _, err := standardizeFilters([]byte("[{")); err == nil {
		t.Error("expected parse error")
	}
	got, err = standardizeFilters([]byte(`{"search": "x", /* old */ }`))
	if err != nil {
		t.Fatalf("standardize: %v", err)
	}
	if !json.Valid(got) {
		t.Errorf("output is not JSON: %s", got)
	}
}
