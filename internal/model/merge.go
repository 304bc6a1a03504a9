package model

// MergeGroups collapses groups into at most one include group followed by at
// most one exclude group. Items are partitioned by their group's polarity and
// keep their relative order; group boundaries are discarded. The result is
// idempotent under a second merge and holds the same number of items.
func MergeGroups(groups []FilterGroup) MediaFilters {
	var include, exclude []FilterItem
	for _, g := range groups {
		if g.Include {
			include = append(include, g.Items...)
		} else {
			exclude = append(exclude, g.Items...)
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
