package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFilters is returned by ParseFilters for a payload that is neither
// a group array nor a legacy object.
var ErrNotFilters = errors.New("filters must be an array of groups or a legacy filter object")

// LegacyFilter is the flat filter shape written by older clients. Unknown
// keys are ignored.
type LegacyFilter struct {
	Search        *string  `json:"search,omitempty"`
	Caption       *string  `json:"caption,omitempty"`
	ShootID       *string  `json:"shootId,omitempty"`
	ExcludeShoots []string `json:"excludeShoots,omitempty"`
}

// legacyKeys maps each detection key to the JSON token type that marks it.
var legacyKeys = map[string]byte{
	"search":        '"',
	"caption":       '"',
	"shootId":       '"',
	"excludeShoots": '[',
}

// IsLegacy reports whether raw is a JSON object with any of a string
// search, a string caption, a string shootId or an array excludeShoots.
// Detection is purely by shape.
func IsLegacy(raw json.RawMessage) bool {
	obj, ok := decodeObject(raw)
	if !ok {
		return false
	}
	return isLegacyObject(obj)
}

func isLegacyObject(obj map[string]json.RawMessage) bool {
	for key, tok := range legacyKeys {
		v, ok := obj[key]
		if ok && len(v) > 0 && v[0] == tok {
			return true
		}
	}
	return false
}

// MigrateLegacy converts a legacy filter into the grouped model. It emits an
// include group (filename, caption, shoot, in that order) and an exclude
// group (one shoot per excluded id); groups that end up empty are omitted.
func MigrateLegacy(in LegacyFilter) MediaFilters {
	var include []FilterItem
	if s := trimmed(in.Search); s != "" {
		include = append(include, FilenameItem(s))
	}
	if s := trimmed(in.Caption); s != "" {
		include = append(include, CaptionItem(s))
	}
	if s := trimmed(in.ShootID); s != "" {
		include = append(include, ShootItem(s))
	}

	var exclude []FilterItem
	for _, id := range in.ExcludeShoots {
		if id = strings.TrimSpace(id); id != "" {
			exclude = append(exclude, ShootItem(id))
		}
	}

	out := MediaFilters{}
	if len(include) > 0 {
		out = append(out, FilterGroup{Include: true, Items: include})
	}
	if len(exclude) > 0 {
		out = append(out, FilterGroup{Include: false, Items: exclude})
	}
	return out
}

// Sanitize turns an untrusted filter payload into MediaFilters. Callers must
// route every external payload (request bodies, stored presets) through it.
//
// null, empty input and {} yield an empty set; a legacy-shaped object is
// migrated; an array is decoded leniently, keeping every group and item that
// can be read and marking known-kind items with a bad value as Malformed.
// Anything else yields an empty set.
func Sanitize(raw json.RawMessage) MediaFilters {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return MediaFilters{}
	}

	switch raw[0] {
	case '{':
		obj, ok := decodeObject(raw)
		if !ok || !isLegacyObject(obj) {
			return MediaFilters{}
		}
		return MigrateLegacy(decodeLegacy(obj))
	case '[':
		return decodeFiltersLenient(raw)
	}
	return MediaFilters{}
}

// decodeFiltersLenient decodes group by group and item by item, so one bad
// entry never takes its siblings down with it. A group that is not an object
// with an items array is dropped; see decodeItemLenient for items.
func decodeFiltersLenient(raw json.RawMessage) MediaFilters {
	var groups []json.RawMessage
	if err := json.Unmarshal(raw, &groups); err != nil {
		return MediaFilters{}
	}
	out := make(MediaFilters, 0, len(groups))
	for _, gr := range groups {
		var g struct {
			Include bool              `json:"include"`
			Items   []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(gr, &g); err != nil {
			continue
		}
		fg := FilterGroup{Include: g.Include}
		if g.Items != nil {
			fg.Items = make([]FilterItem, 0, len(g.Items))
		}
		for _, ir := range g.Items {
			if it, ok := decodeItemLenient(ir); ok {
				fg.Items = append(fg.Items, it)
			}
		}
		out = append(out, fg)
	}
	return out
}

// ParseFilters is the strict counterpart to Sanitize used on write paths.
// null and empty input yield an empty set and legacy objects are migrated,
// but any other object, or an array that fails to decode, is an error. The
// result is not validated; see ValidateFilters.
func ParseFilters(raw json.RawMessage) (MediaFilters, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return MediaFilters{}, nil
	}

	switch raw[0] {
	case '{':
		obj, ok := decodeObject(raw)
		if !ok || !isLegacyObject(obj) {
			return nil, ErrNotFilters
		}
		return MigrateLegacy(decodeLegacy(obj)), nil
	case '[':
		var f MediaFilters
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("invalid filters: %w", err)
		}
		if f == nil {
			f = MediaFilters{}
		}
		return f, nil
	}
	return nil, ErrNotFilters
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// decodeLegacy reads the legacy fields one by one so that a field of the
// wrong type is dropped instead of failing the whole conversion.
func decodeLegacy(obj map[string]json.RawMessage) LegacyFilter {
	var in LegacyFilter
	in.Search = stringField(obj, "search")
	in.Caption = stringField(obj, "caption")
	in.ShootID = stringField(obj, "shootId")

	var entries []json.RawMessage
	if v, ok := obj["excludeShoots"]; ok && json.Unmarshal(v, &entries) == nil {
		for _, e := range entries {
			var s string
			if json.Unmarshal(e, &s) == nil {
				in.ExcludeShoots = append(in.ExcludeShoots, s)
			}
		}
	}
	return in
}

func stringField(obj map[string]json.RawMessage, key string) *string {
	v, ok := obj[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil
	}
	return &s
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
