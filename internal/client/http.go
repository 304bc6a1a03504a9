package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// HTTPClient implements MediaClient using the medialib HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ MediaClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Media ---

func (c *HTTPClient) ListMedia(ctx context.Context, req *ListMediaRequest) (*ListMediaResponse, error) {
	q := url.Values{}
	if len(req.Filters) > 0 {
		q.Set("filters", string(req.Filters))
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}

	path := "/v1/media"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListMediaResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SearchMedia(ctx context.Context, req *ListMediaRequest) (*ListMediaResponse, error) {
	var resp ListMediaResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/media/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CreateMedia(ctx context.Context, req *CreateMediaRequest) (*model.Media, error) {
	var m model.Media
	if err := c.doJSON(ctx, http.MethodPost, "/v1/media", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	if err := c.doJSON(ctx, http.MethodGet, "/v1/media/"+url.PathEscape(id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) DeleteMedia(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/media/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) AddTag(ctx context.Context, mediaID, tagID string) ([]string, error) {
	body := map[string]string{"tag_id": tagID}
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/media/"+url.PathEscape(mediaID)+"/tags", body, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

func (c *HTTPClient) RemoveTag(ctx context.Context, mediaID, tagID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/media/"+url.PathEscape(mediaID)+"/tags/"+url.PathEscape(tagID), nil, nil)
}

func (c *HTTPClient) AddToShoot(ctx context.Context, mediaID, shootID string) ([]string, error) {
	body := map[string]string{"shoot_id": shootID}
	var resp struct {
		Shoots []string `json:"shoots"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/media/"+url.PathEscape(mediaID)+"/shoots", body, &resp); err != nil {
		return nil, err
	}
	return resp.Shoots, nil
}

// --- Posts ---

func (c *HTTPClient) CreatePost(ctx context.Context, req *CreatePostRequest) (*model.Post, error) {
	var p model.Post
	if err := c.doJSON(ctx, http.MethodPost, "/v1/posts", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- Filters ---

func (c *HTTPClient) SanitizeFilters(ctx context.Context, raw json.RawMessage) (*SanitizeResponse, error) {
	var resp SanitizeResponse
	if err := c.doRaw(ctx, http.MethodPost, "/v1/filters/sanitize", raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) MergeFilters(ctx context.Context, raw json.RawMessage) (model.MediaFilters, error) {
	var resp struct {
		Filters model.MediaFilters `json:"filters"`
	}
	if err := c.doRaw(ctx, http.MethodPost, "/v1/filters/merge", raw, &resp); err != nil {
		return nil, err
	}
	return resp.Filters, nil
}

func (c *HTTPClient) DescribeFilters(ctx context.Context, raw json.RawMessage, opts DescribeOptions) (string, error) {
	q := url.Values{}
	if opts.Layout != "" {
		q.Set("layout", opts.Layout)
	}
	if opts.TimeZone != "" {
		q.Set("tz", opts.TimeZone)
	}
	path := "/v1/filters/describe"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Summary string `json:"summary"`
	}
	if err := c.doRaw(ctx, http.MethodPost, path, raw, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

func (c *HTTPClient) CompileFilters(ctx context.Context, raw json.RawMessage, dialect string) (*CompileResponse, error) {
	path := "/v1/filters/compile"
	if dialect != "" {
		path += "?dialect=" + url.QueryEscape(dialect)
	}
	var resp CompileResponse
	if err := c.doRaw(ctx, http.MethodPost, path, raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ValidateFilters(ctx context.Context, raw json.RawMessage) (*ValidateResponse, error) {
	var resp ValidateResponse
	if err := c.doRaw(ctx, http.MethodPost, "/v1/filters/validate", raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Presets ---

func (c *HTTPClient) ListPresets(ctx context.Context) ([]*Preset, error) {
	var resp struct {
		Presets []*Preset `json:"presets"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/presets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Presets, nil
}

func (c *HTTPClient) GetPreset(ctx context.Context, id string) (*Preset, error) {
	var p Preset
	if err := c.doJSON(ctx, http.MethodGet, "/v1/presets/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) CreatePreset(ctx context.Context, req *PresetRequest) (*Preset, error) {
	var p Preset
	if err := c.doJSON(ctx, http.MethodPost, "/v1/presets", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdatePreset(ctx context.Context, id string, req *PresetRequest) (*Preset, error) {
	var p Preset
	if err := c.doJSON(ctx, http.MethodPut, "/v1/presets/"+url.PathEscape(id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePreset(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/presets/"+url.PathEscape(id), nil, nil)
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server. Fields is set when
// the server rejected the request with field-level validation errors.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}
	return c.do(ctx, method, path, data, result)
}

// doRaw sends raw as the request body unchanged. An empty raw sends null.
func (c *HTTPClient) doRaw(ctx context.Context, method, path string, raw json.RawMessage, result any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("null")
	}
	return c.do(ctx, method, path, raw, result)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string       `json:"error"`
			Fields []FieldError `json:"fields"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error, Fields: errResp.Fields}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
