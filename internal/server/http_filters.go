package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/query"
)

// decodeFiltersStrict is the write-path decoder. Legacy objects are
// migrated, arrays must decode cleanly, and the result must validate.
func decodeFiltersStrict(raw json.RawMessage) (model.MediaFilters, error) {
	f, err := model.ParseFilters(raw)
	if err != nil {
		return nil, inputError(err.Error())
	}
	if err := model.ValidateFilters(f); err != nil {
		return nil, err
	}
	return f, nil
}

// handleSanitizeFilters handles POST /v1/filters/sanitize. The body is any
// stored filter value; the response is its current-format equivalent.
func (s *MediaServer) handleSanitizeFilters(w http.ResponseWriter, r *http.Request) {
	raw, err := readRawBody(r)
	if err != nil {
		s.writeStoreError(w, err, "filters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filters": model.Sanitize(raw),
		"legacy":  model.IsLegacy(raw),
	})
}

// handleMergeFilters handles POST /v1/filters/merge.
func (s *MediaServer) handleMergeFilters(w http.ResponseWriter, r *http.Request) {
	raw, err := readRawBody(r)
	if err != nil {
		s.writeStoreError(w, err, "filters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filters": model.MergeGroups(model.Sanitize(raw)),
	})
}

// handleDescribeFilters handles POST /v1/filters/describe. Optional query
// parameters: layout (Go time layout) and tz (IANA zone name).
func (s *MediaServer) handleDescribeFilters(w http.ResponseWriter, r *http.Request) {
	raw, err := readRawBody(r)
	if err != nil {
		s.writeStoreError(w, err, "filters")
		return
	}

	summarizer := model.Summarizer{DateLayout: r.URL.Query().Get("layout")}
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown time zone "+tz)
			return
		}
		summarizer.Location = loc
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"summary": summarizer.Describe(model.Sanitize(raw)),
	})
}

// paramJSON is one bound parameter in a compile response.
type paramJSON struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Value       any    `json:"value"`
}

// compileRecorder is a query.Builder that keeps the unwrapped values so
// they can be shown to the caller.
type compileRecorder struct {
	dialect query.Dialect
	clauses []string
	params  []paramJSON
}

func (c *compileRecorder) Bind(name string, value any) string {
	ph := c.dialect.Placeholder(name, len(c.params)+1)
	c.params = append(c.params, paramJSON{Name: name, Placeholder: ph, Value: value})
	return ph
}

func (c *compileRecorder) Where(clause string) {
	c.clauses = append(c.clauses, clause)
}

// handleCompileFilters handles POST /v1/filters/compile?dialect=postgres|sqlite.
func (s *MediaServer) handleCompileFilters(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("dialect")
	if name == "" {
		name = query.Postgres.Name()
	}
	d, err := query.DialectByName(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := readRawBody(r)
	if err != nil {
		s.writeStoreError(w, err, "filters")
		return
	}

	rec := &compileRecorder{dialect: d}
	query.Compile(model.Sanitize(raw), rec, d)

	clauses := rec.clauses
	if clauses == nil {
		clauses = []string{}
	}
	params := rec.params
	if params == nil {
		params = []paramJSON{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dialect": d.Name(),
		"where":   strings.Join(clauses, " AND "),
		"clauses": clauses,
		"params":  params,
	})
}

// handleValidateFilters handles POST /v1/filters/validate. It reports
// problems in the response rather than failing the request.
func (s *MediaServer) handleValidateFilters(w http.ResponseWriter, r *http.Request) {
	raw, err := readRawBody(r)
	if err != nil {
		s.writeStoreError(w, err, "filters")
		return
	}

	resp := map[string]any{"valid": true, "errors": []fieldErrorJSON{}}
	_, err = decodeFiltersStrict(raw)
	if err != nil {
		resp["valid"] = false
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			fields := make([]fieldErrorJSON, len(ve.Errors))
			for i, fe := range ve.Errors {
				fields[i] = fieldErrorJSON{Field: fe.Field, Message: fe.Message}
			}
			resp["errors"] = fields
		} else {
			resp["errors"] = []fieldErrorJSON{{Field: "filters", Message: err.Error()}}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
