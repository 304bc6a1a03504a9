package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	escaped     string // URL-encoded path (for testing PathEscape)
	query       url.Values
	body        string
	contentType string
	auth        string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.escaped = r.URL.EscapedPath()
	h.query = r.URL.Query()
	h.contentType = r.Header.Get("Content-Type")
	h.auth = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", "")
}

func TestHTTPClient_ListMedia(t *testing.T) {
	h := &testHandler{responseBody: `{
		"media": [{"id":"md-1","relative_path":"a.jpg","name":"a.jpg","type":"image","size":3}],
		"total": 7,
		"summary": "Include: Tag: t1"
	}`}
	c := newTestClient(t, h)

	resp, err := c.ListMedia(context.Background(), &ListMediaRequest{
		Filters: json.RawMessage(`{"search":"a"}`),
		Sort:    "-size",
		Limit:   1,
		Offset:  2,
	})
	if err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}

	if h.method != http.MethodGet || h.path != "/v1/media" {
		t.Errorf("request = %s %s, want GET /v1/media", h.method, h.path)
	}
	wantQuery := url.Values{
		"filters": {`{"search":"a"}`},
		"sort":    {"-size"},
		"limit":   {"1"},
		"offset":  {"2"},
	}
	if diff := cmp.Diff(wantQuery, h.query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	if resp.Total != 7 || len(resp.Media) != 1 || resp.Media[0].Type != model.MediaTypeImage {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Summary != "Include: Tag: t1" {
		t.Errorf("Summary = %q", resp.Summary)
	}
}

func TestHTTPClient_ListMedia_NoParams(t *testing.T) {
	h := &testHandler{responseBody: `{"media":[],"total":0,"summary":"No filters"}`}
	c := newTestClient(t, h)

	if _, err := c.ListMedia(context.Background(), &ListMediaRequest{}); err != nil {
		t.Fatalf("ListMedia() error = %v", err)
	}
	if len(h.query) != 0 {
		t.Errorf("expected no query params, got %v", h.query)
	}
}

func TestHTTPClient_SearchMedia(t *testing.T) {
	h := &testHandler{responseBody: `{"media":[],"total":0,"summary":"No filters"}`}
	c := newTestClient(t, h)

	_, err := c.SearchMedia(context.Background(), &ListMediaRequest{
		Filters: json.RawMessage(`[{"include":true,"items":[{"kind":"posted","value":true}]}]`),
		Limit:   5,
	})
	if err != nil {
		t.Fatalf("SearchMedia() error = %v", err)
	}
	if h.method != http.MethodPost || h.path != "/v1/media/search" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
	want := `{"filters":[{"include":true,"items":[{"kind":"posted","value":true}]}],"limit":5}`
	if h.body != want {
		t.Errorf("body = %s, want %s", h.body, want)
	}
}

func TestHTTPClient_MediaPaths(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name       string
		call       func(c *HTTPClient) error
		response   string
		status     int
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name:       "GetMedia",
			call:       func(c *HTTPClient) error { _, err := c.GetMedia(ctx, "md/1"); return err },
			response:   `{"id":"md/1"}`,
			wantMethod: http.MethodGet,
			wantPath:   "/v1/media/md%2F1",
		},
		{
			name:       "DeleteMedia",
			call:       func(c *HTTPClient) error { return c.DeleteMedia(ctx, "md-1") },
			status:     http.StatusNoContent,
			wantMethod: http.MethodDelete,
			wantPath:   "/v1/media/md-1",
		},
		{
			name:       "AddTag",
			call:       func(c *HTTPClient) error { _, err := c.AddTag(ctx, "md-1", "t1"); return err },
			response:   `{"media_id":"md-1","tags":["t1"]}`,
			wantMethod: http.MethodPost,
			wantPath:   "/v1/media/md-1/tags",
			wantBody:   `{"tag_id":"t1"}`,
		},
		{
			name:       "RemoveTag",
			call:       func(c *HTTPClient) error { return c.RemoveTag(ctx, "md-1", "t 1") },
			status:     http.StatusNoContent,
			wantMethod: http.MethodDelete,
			wantPath:   "/v1/media/md-1/tags/t%201",
		},
		{
			name:       "AddToShoot",
			call:       func(c *HTTPClient) error { _, err := c.AddToShoot(ctx, "md-1", "s1"); return err },
			response:   `{"media_id":"md-1","shoots":["s1"]}`,
			wantMethod: http.MethodPost,
			wantPath:   "/v1/media/md-1/shoots",
			wantBody:   `{"shoot_id":"s1"}`,
		},
		{
			name: "CreatePost",
			call: func(c *HTTPClient) error {
				_, err := c.CreatePost(ctx, &CreatePostRequest{ChannelID: "ch1", MediaIDs: []string{"md-1"}})
				return err
			},
			response:   `{"id":"po-1","status":"draft"}`,
			status:     http.StatusCreated,
			wantMethod: http.MethodPost,
			wantPath:   "/v1/posts",
			wantBody:   `{"channel_id":"ch1","media_ids":["md-1"]}`,
		},
		{
			name: "CreateMedia",
			call: func(c *HTTPClient) error {
				_, err := c.CreateMedia(ctx, &CreateMediaRequest{RelativePath: "a.jpg", Tags: []string{"t1"}})
				return err
			},
			response:   `{"id":"md-1"}`,
			status:     http.StatusCreated,
			wantMethod: http.MethodPost,
			wantPath:   "/v1/media",
			wantBody:   `{"relative_path":"a.jpg","tags":["t1"]}`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := &testHandler{statusCode: tc.status, responseBody: tc.response}
			c := newTestClient(t, h)
			if err := tc.call(c); err != nil {
				t.Fatalf("%s() error = %v", tc.name, err)
			}
			if h.method != tc.wantMethod {
				t.Errorf("method = %q, want %q", h.method, tc.wantMethod)
			}
			if h.escaped != tc.wantPath {
				t.Errorf("path = %q, want %q", h.escaped, tc.wantPath)
			}
			if tc.wantBody != "" && h.body != tc.wantBody {
				t.Errorf("body = %s, want %s", h.body, tc.wantBody)
			}
		})
	}
}

func TestHTTPClient_SanitizeFilters(t *testing.T) {
	h := &testHandler{responseBody: `{"filters":[{"include":true,"items":[{"kind":"filename","value":"x"}]}],"legacy":true}`}
	c := newTestClient(t, h)

	resp, err := c.SanitizeFilters(context.Background(), json.RawMessage(`{"search":"x"}`))
	if err != nil {
		t.Fatalf("SanitizeFilters() error = %v", err)
	}
	if h.body != `{"search":"x"}` {
		t.Errorf("body = %s, want raw payload", h.body)
	}
	want := &SanitizeResponse{
		Filters: model.MediaFilters{{Include: true, Items: []model.FilterItem{model.FilenameItem("x")}}},
		Legacy:  true,
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_DescribeFilters(t *testing.T) {
	h := &testHandler{responseBody: `{"summary":"No filters"}`}
	c := newTestClient(t, h)

	got, err := c.DescribeFilters(context.Background(), nil, DescribeOptions{Layout: "2006-01-02", TimeZone: "Europe/Paris"})
	if err != nil {
		t.Fatalf("DescribeFilters() error = %v", err)
	}
	if got != "No filters" {
		t.Errorf("summary = %q", got)
	}
	if h.body != "null" {
		t.Errorf("body = %q, want null for empty input", h.body)
	}
	if h.query.Get("layout") != "2006-01-02" || h.query.Get("tz") != "Europe/Paris" {
		t.Errorf("query = %v", h.query)
	}
}

func TestHTTPClient_CompileFilters(t *testing.T) {
	h := &testHandler{responseBody: `{
		"dialect": "sqlite",
		"where": " WHERE x",
		"clauses": ["x"],
		"params": [{"name":"tagId0","placeholder":":tagId0","value":"t1"}]
	}`}
	c := newTestClient(t, h)

	resp, err := c.CompileFilters(context.Background(), json.RawMessage(`[]`), "sqlite")
	if err != nil {
		t.Fatalf("CompileFilters() error = %v", err)
	}
	if h.query.Get("dialect") != "sqlite" {
		t.Errorf("dialect query = %q", h.query.Get("dialect"))
	}
	want := []CompiledParam{{Name: "tagId0", Placeholder: ":tagId0", Value: "t1"}}
	if diff := cmp.Diff(want, resp.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_Presets(t *testing.T) {
	ctx := context.Background()

	h := &testHandler{
		statusCode:   http.StatusCreated,
		responseBody: `{"id":"fp-1","name":"Videos","filters":[],"summary":"No filters"}`,
	}
	c := newTestClient(t, h)
	p, err := c.CreatePreset(ctx, &PresetRequest{Name: "Videos", Filters: json.RawMessage(`[]`)})
	if err != nil {
		t.Fatalf("CreatePreset() error = %v", err)
	}
	if p.ID != "fp-1" || p.Summary != "No filters" {
		t.Errorf("unexpected preset: %+v", p)
	}
	if h.body != `{"name":"Videos","filters":[]}` {
		t.Errorf("body = %s", h.body)
	}

	h = &testHandler{responseBody: `{"presets":[{"id":"fp-1","name":"A"},{"id":"fp-2","name":"B"}]}`}
	c = newTestClient(t, h)
	list, err := c.ListPresets(ctx)
	if err != nil {
		t.Fatalf("ListPresets() error = %v", err)
	}
	if len(list) != 2 || list[1].Name != "B" {
		t.Errorf("unexpected list: %+v", list)
	}

	h = &testHandler{responseBody: `{"id":"fp-1","name":"C"}`}
	c = newTestClient(t, h)
	if _, err := c.UpdatePreset(ctx, "fp-1", &PresetRequest{Name: "C"}); err != nil {
		t.Fatalf("UpdatePreset() error = %v", err)
	}
	if h.method != http.MethodPut || h.path != "/v1/presets/fp-1" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestHTTPClient_AuthHeader(t *testing.T) {
	h := &testHandler{responseBody: `{"status":"ok"}`}
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret")
	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status != "ok" {
		t.Errorf("status = %q", status)
	}
	if h.auth != "Bearer secret" {
		t.Errorf("Authorization = %q", h.auth)
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusBadRequest,
		responseBody: `{"error":"validation failed","fields":[{"field":"name","message":"is required"}]}`,
	}
	c := newTestClient(t, h)

	_, err := c.CreatePreset(context.Background(), &PresetRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if diff := cmp.Diff([]FieldError{{Field: "name", Message: "is required"}}, apiErr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if got := apiErr.Error(); got != "HTTP 400: validation failed (name: is required)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestHTTPClient_APIError_PlainBody(t *testing.T) {
	h := &testHandler{statusCode: http.StatusBadGateway, responseBody: "upstream down"}
	c := newTestClient(t, h)

	err := c.DeletePreset(context.Background(), "fp-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "upstream down" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
