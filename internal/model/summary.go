package model

import (
	"strings"
	"time"
)

// DefaultDateLayout renders dates the way the en-US locale does.
const DefaultDateLayout = "1/2/2006"

// Summarizer renders filters as short human-readable text. The zero value
// uses DefaultDateLayout in UTC.
type Summarizer struct {
	DateLayout string
	Location   *time.Location
}

// Describe renders f with the default Summarizer.
func Describe(f MediaFilters) string {
	return Summarizer{}.Describe(f)
}

// Describe renders each non-empty group as "Include: a, b" or "Exclude: a",
// joined with " | ". With nothing to show it returns "No filters".
func (s Summarizer) Describe(f MediaFilters) string {
	var parts []string
	for _, g := range f {
		if g.IsEmpty() {
			continue
		}
		parts = append(parts, s.DescribeGroup(g))
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return strings.Join(parts, " | ")
}

// DescribeGroup renders a single group, empty or not.
func (s Summarizer) DescribeGroup(g FilterGroup) string {
	items := make([]string, len(g.Items))
	for i, it := range g.Items {
		items[i] = s.DescribeItem(it)
	}
	prefix := "Exclude: "
	if g.Include {
		prefix = "Include: "
	}
	return prefix + strings.Join(items, ", ")
}

// DescribeItem renders a single item. Unknown kinds and malformed items render
// as their kind name.
func (s Summarizer) DescribeItem(it FilterItem) string {
	if it.Malformed {
		return string(it.Kind)
	}
	switch it.Kind {
	case KindChannel:
		return "Channel: " + it.ID
	case KindSubreddit:
		return "Subreddit: " + it.ID
	case KindTag:
		return "Tag: " + it.ID
	case KindShoot:
		return "Shoot: " + it.ID
	case KindFilename:
		return `Filename: "` + it.Text + `"`
	case KindCaption:
		return `Caption: "` + it.Text + `"`
	case KindPosted:
		if it.Posted {
			return "Posted"
		}
		return "Unposted"
	case KindMediaType:
		return "Type: " + string(it.MediaType)
	case KindCreatedDateStart:
		return "Created after: " + s.formatDate(it.Date)
	case KindCreatedDateEnd:
		return "Created before: " + s.formatDate(it.Date)
	}
	return string(it.Kind)
}

func (s Summarizer) formatDate(d time.Time) string {
	layout := s.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return d.In(loc).Format(layout)
}
