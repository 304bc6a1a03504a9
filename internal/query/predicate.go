// Package query compiles media filters into SQL predicates.
//
// Compilation happens in two steps. Build turns a model.MediaFilters value
// into a tree of typed predicates in which every value is a named Param.
// A Renderer then turns that tree into SQL text for one Dialect, binding
// each Param through a Builder. Values never appear in the SQL text.
package query

// Column is a logical column. The renderer maps it to a physical one.
type Column string

const (
	ColMediaPath      Column = "media.relative_path"
	ColMediaType      Column = "media.type"
	ColMediaCreatedAt Column = "media.created_at"

	ColTagID           Column = "tag.id"
	ColShootID         Column = "shoot.id"
	ColPostChannelID   Column = "post.channel_id"
	ColPostSubredditID Column = "post.subreddit_id"
	ColPostStatus      Column = "post.status"
	ColPostCaption     Column = "post.caption"
)

// Relation names a set of rows related to a media record.
type Relation string

const (
	RelTags   Relation = "tags"
	RelShoots Relation = "shoots"
	RelPosts  Relation = "posts"
)

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "="
	OpNe  Op = "<>"
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Param is a bound value. Names are unique within one Build call.
type Param struct {
	Name  string
	Value any
}

// Predicate is a node of the predicate tree.
type Predicate interface {
	isPredicate()
}

// And is the conjunction of its terms. An And with no terms is true.
type And struct {
	Terms []Predicate
}

// Compare tests Column against a bound value.
type Compare struct {
	Column Column
	Op     Op
	Param  Param
}

// Contains is a case-insensitive substring test of Column against the
// param's string value.
type Contains struct {
	Column  Column
	Negated bool
	Param   Param
}

// Exists tests whether any row of Relation belonging to the media record
// satisfies every predicate in Where.
type Exists struct {
	Negated  bool
	Relation Relation
	Where    []Predicate
}

func (And) isPredicate()      {}
func (Compare) isPredicate()  {}
func (Contains) isPredicate() {}
func (Exists) isPredicate()   {}

// collectParams returns every param in p in depth-first order.
func collectParams(p Predicate) []Param {
	var out []Param
	var walk func(Predicate)
	walk = func(p Predicate) {
		switch n := p.(type) {
		case And:
			for _, t := range n.Terms {
				walk(t)
			}
		case Compare:
			out = append(out, n.Param)
		case Contains:
			out = append(out, n.Param)
		case Exists:
			for _, t := range n.Where {
				walk(t)
			}
		}
	}
	walk(p)
	return out
}
