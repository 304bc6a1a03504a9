package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ItemKind identifies the condition a FilterItem expresses.
type ItemKind string

// Relation kinds: membership in a many-to-many relation, keyed by ID.
const (
	KindChannel   ItemKind = "channel"
	KindSubreddit ItemKind = "subreddit"
	KindTag       ItemKind = "tag"
	KindShoot     ItemKind = "shoot"
)

// Substring kinds: case-insensitive substring match on Text.
const (
	KindFilename ItemKind = "filename"
	KindCaption  ItemKind = "caption"
)

// Scalar kinds.
const (
	KindPosted           ItemKind = "posted"
	KindMediaType        ItemKind = "mediaType"
	KindCreatedDateStart ItemKind = "createdDateStart"
	KindCreatedDateEnd   ItemKind = "createdDateEnd"
)

// String returns the string representation of the kind.
func (k ItemKind) String() string {
	return string(k)
}

// IsRelation reports whether the kind matches on a related record ID.
func (k ItemKind) IsRelation() bool {
	switch k {
	case KindChannel, KindSubreddit, KindTag, KindShoot:
		return true
	}
	return false
}

// IsKnown reports whether the kind is one this version understands.
// Unknown kinds are carried through decoding and ignored by every consumer.
func (k ItemKind) IsKnown() bool {
	switch k {
	case KindChannel, KindSubreddit, KindTag, KindShoot,
		KindFilename, KindCaption, KindPosted, KindMediaType,
		KindCreatedDateStart, KindCreatedDateEnd:
		return true
	}
	return false
}

// MediaType is the scalar type column of a media record.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// IsValid checks whether the media type is a known value.
func (t MediaType) IsValid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// FilterItem is one atomic filter condition. Which field is meaningful is
// decided by Kind:
//
//	channel, subreddit, tag, shoot  -> ID
//	filename, caption               -> Text
//	posted                          -> Posted
//	mediaType                       -> MediaType
//	createdDateStart, createdDateEnd -> Date
//
// Items of an unknown kind keep their raw JSON value in Raw so they survive a
// decode/encode round trip. Malformed marks a known-kind item whose value did
// not decode; Raw then holds the whole item and every consumer skips it.
type FilterItem struct {
	Kind      ItemKind
	ID        string
	Text      string
	Posted    bool
	MediaType MediaType
	Date      time.Time
	Raw       json.RawMessage
	Malformed bool
}

func ChannelItem(id string) FilterItem   { return FilterItem{Kind: KindChannel, ID: id} }
func SubredditItem(id string) FilterItem { return FilterItem{Kind: KindSubreddit, ID: id} }
func TagItem(id string) FilterItem       { return FilterItem{Kind: KindTag, ID: id} }
func ShootItem(id string) FilterItem     { return FilterItem{Kind: KindShoot, ID: id} }

func FilenameItem(v string) FilterItem { return FilterItem{Kind: KindFilename, Text: v} }
func CaptionItem(v string) FilterItem  { return FilterItem{Kind: KindCaption, Text: v} }

func PostedItem(posted bool) FilterItem { return FilterItem{Kind: KindPosted, Posted: posted} }

func MediaTypeItem(t MediaType) FilterItem { return FilterItem{Kind: KindMediaType, MediaType: t} }

func CreatedAfterItem(d time.Time) FilterItem  { return FilterItem{Kind: KindCreatedDateStart, Date: d} }
func CreatedBeforeItem(d time.Time) FilterItem { return FilterItem{Kind: KindCreatedDateEnd, Date: d} }

// wireItem is the JSON shape of a FilterItem.
type wireItem struct {
	Kind  ItemKind        `json:"kind"`
	ID    *string         `json:"id,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// dateLayouts are accepted when decoding date bounds, most specific first.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// MarshalJSON encodes the item as {"kind", "id"} for relation kinds and
// {"kind", "value"} for everything else.
func (it FilterItem) MarshalJSON() ([]byte, error) {
	if it.Malformed && len(it.Raw) > 0 {
		return it.Raw, nil
	}
	w := wireItem{Kind: it.Kind}
	var (
		v   any
		err error
	)
	switch it.Kind {
	case KindChannel, KindSubreddit, KindTag, KindShoot:
		id := it.ID
		w.ID = &id
		return json.Marshal(w)
	case KindFilename, KindCaption:
		v = it.Text
	case KindPosted:
		v = it.Posted
	case KindMediaType:
		v = it.MediaType
	case KindCreatedDateStart, KindCreatedDateEnd:
		v = it.Date.Format(time.RFC3339Nano)
	default:
		if it.ID != "" {
			id := it.ID
			w.ID = &id
		}
		w.Value = it.Raw
		return json.Marshal(w)
	}
	if w.Value, err = json.Marshal(v); err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an item. A known kind whose value has the wrong type
// is an error; an unknown kind is accepted as-is.
func (it *FilterItem) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := FilterItem{Kind: w.Kind}
	if w.ID != nil {
		out.ID = *w.ID
	}

	switch w.Kind {
	case KindChannel, KindSubreddit, KindTag, KindShoot:
		if w.ID == nil {
			// Older payloads put the id under "value".
			if err := decodeValue(w, &out.ID); err != nil {
				return err
			}
		}
	case KindFilename, KindCaption:
		if err := decodeValue(w, &out.Text); err != nil {
			return err
		}
	case KindPosted:
		if err := decodeValue(w, &out.Posted); err != nil {
			return err
		}
	case KindMediaType:
		if err := decodeValue(w, &out.MediaType); err != nil {
			return err
		}
	case KindCreatedDateStart, KindCreatedDateEnd:
		var s string
		if err := decodeValue(w, &s); err != nil {
			return err
		}
		d, err := parseDate(s)
		if err != nil {
			return fmt.Errorf("%s: %w", w.Kind, err)
		}
		out.Date = d
	default:
		if len(w.Value) > 0 {
			out.Raw = append(json.RawMessage(nil), w.Value...)
		}
	}

	*it = out
	return nil
}

// decodeItemLenient decodes one item for the read path. A known kind with a
// bad value becomes a Malformed item; input that is not an item object at all
// reports ok=false.
func decodeItemLenient(raw json.RawMessage) (it FilterItem, ok bool) {
	if err := json.Unmarshal(raw, &it); err == nil {
		return it, true
	}
	var w struct {
		Kind ItemKind `json:"kind"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return FilterItem{}, false
	}
	return FilterItem{
		Kind:      w.Kind,
		Raw:       append(json.RawMessage(nil), bytes.TrimSpace(raw)...),
		Malformed: true,
	}, true
}

func decodeValue(w wireItem, dst any) error {
	if len(w.Value) == 0 || bytes.Equal(w.Value, []byte("null")) {
		return fmt.Errorf("%s: missing value", w.Kind)
	}
	if err := json.Unmarshal(w.Value, dst); err != nil {
		return fmt.Errorf("%s: %w", w.Kind, err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, s)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FilterGroup is a polarity plus an ordered list of items. Every item in the
// group shares the group's polarity. A group with no items is inert.
type FilterGroup struct {
	Include bool         `json:"include"`
	Items   []FilterItem `json:"items"`
}

// IsEmpty reports whether the group has no items.
func (g FilterGroup) IsEmpty() bool {
	return len(g.Items) == 0
}

// MediaFilters is the full ordered list of groups a caller works with. The
// compiled predicate is the conjunction of every item across every group;
// a group's polarity only decides whether its items are negated.
type MediaFilters []FilterGroup

// CountItems returns the number of items across all groups.
func (f MediaFilters) CountItems() int {
	n := 0
	for _, g := range f {
		n += len(g.Items)
	}
	return n
}

// IsEmpty reports whether no group has any items.
func (f MediaFilters) IsEmpty() bool {
	return f.CountItems() == 0
}

// MarshalJSON encodes a nil MediaFilters as [] rather than null.
func (f MediaFilters) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]FilterGroup(f))
}
