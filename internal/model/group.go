package model

// The helpers below never modify their receiver or arguments; every edit
// returns a fresh value with the touched group copied. Out-of-range indexes
// return the input unchanged.

// AddGroup returns f with an empty group of the given polarity appended.
func (f MediaFilters) AddGroup(include bool) MediaFilters {
	out := make(MediaFilters, len(f), len(f)+1)
	copy(out, f)
	return append(out, FilterGroup{Include: include, Items: []FilterItem{}})
}

// RemoveGroup returns f without the group at index i.
func (f MediaFilters) RemoveGroup(i int) MediaFilters {
	if i < 0 || i >= len(f) {
		return f
	}
	out := make(MediaFilters, 0, len(f)-1)
	out = append(out, f[:i]...)
	return append(out, f[i+1:]...)
}

// UpdateGroup returns f with the group at index i replaced by g.
func (f MediaFilters) UpdateGroup(i int, g FilterGroup) MediaFilters {
	if i < 0 || i >= len(f) {
		return f
	}
	out := make(MediaFilters, len(f))
	copy(out, f)
	out[i] = g.clone()
	return out
}

// WithItem returns a copy of g with item appended.
func (g FilterGroup) WithItem(item FilterItem) FilterGroup {
	out := g.clone()
	out.Items = append(out.Items, item)
	return out
}

// WithoutItem returns a copy of g without the item at index i.
func (g FilterGroup) WithoutItem(i int) FilterGroup {
	if i < 0 || i >= len(g.Items) {
		return g
	}
	items := make([]FilterItem, 0, len(g.Items)-1)
	items = append(items, g.Items[:i]...)
	items = append(items, g.Items[i+1:]...)
	return FilterGroup{Include: g.Include, Items: items}
}

// ReplaceItem returns a copy of g with the item at index i replaced.
func (g FilterGroup) ReplaceItem(i int, item FilterItem) FilterGroup {
	if i < 0 || i >= len(g.Items) {
		return g
	}
	out := g.clone()
	out.Items[i] = item
	return out
}

// Toggle returns a copy of g with its polarity flipped.
func (g FilterGroup) Toggle() FilterGroup {
	out := g.clone()
	out.Include = !g.Include
	return out
}

func (g FilterGroup) clone() FilterGroup {
	items := make([]FilterItem, len(g.Items), len(g.Items)+1)
	copy(items, g.Items)
	return FilterGroup{Include: g.Include, Items: items}
}
