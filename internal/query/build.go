package query

import (
	"strconv"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// paramIndex issues the numeric suffix for param names. One instance lives
// for exactly one Build call and is shared across all of its groups.
type paramIndex struct {
	n int
}

func (p *paramIndex) next() string {
	s := strconv.Itoa(p.n)
	p.n++
	return s
}

// Build returns the conjunction of one predicate per item across all groups.
// Items in an exclude group are negated. Items of unknown kind are skipped.
// filters is not modified.
func Build(filters model.MediaFilters) And {
	var (
		idx   paramIndex
		terms []Predicate
	)
	for _, g := range filters {
		for _, it := range g.Items {
			if p, ok := buildItem(it, !g.Include, &idx); ok {
				terms = append(terms, p)
			}
		}
	}
	return And{Terms: terms}
}

func buildItem(it model.FilterItem, negate bool, idx *paramIndex) (Predicate, bool) {
	if !it.Kind.IsKnown() || it.Malformed {
		return nil, false
	}
	n := idx.next()

	switch it.Kind {
	case model.KindChannel:
		return Exists{Negated: negate, Relation: RelPosts, Where: []Predicate{
			Compare{Column: ColPostChannelID, Op: OpEq, Param: Param{Name: "channelId" + n, Value: it.ID}},
		}}, true

	case model.KindSubreddit:
		return Exists{Negated: negate, Relation: RelPosts, Where: []Predicate{
			Compare{Column: ColPostSubredditID, Op: OpEq, Param: Param{Name: "subredditId" + n, Value: it.ID}},
			Compare{Column: ColPostStatus, Op: OpEq, Param: Param{Name: "subredditStatus" + n, Value: string(model.PostStatusPosted)}},
		}}, true

	case model.KindTag:
		return Exists{Negated: negate, Relation: RelTags, Where: []Predicate{
			Compare{Column: ColTagID, Op: OpEq, Param: Param{Name: "tagId" + n, Value: it.ID}},
		}}, true

	case model.KindShoot:
		return Exists{Negated: negate, Relation: RelShoots, Where: []Predicate{
			Compare{Column: ColShootID, Op: OpEq, Param: Param{Name: "shootId" + n, Value: it.ID}},
		}}, true

	case model.KindFilename:
		return Contains{Column: ColMediaPath, Negated: negate, Param: Param{Name: "filename" + n, Value: it.Text}}, true

	case model.KindCaption:
		return Exists{Negated: negate, Relation: RelPosts, Where: []Predicate{
			Contains{Column: ColPostCaption, Param: Param{Name: "caption" + n, Value: it.Text}},
		}}, true

	case model.KindPosted:
		// The item value and the group polarity each invert the test, so an
		// excluded "unposted" item selects posted media.
		want := it.Posted != negate
		return Exists{Negated: !want, Relation: RelPosts, Where: []Predicate{
			Compare{Column: ColPostStatus, Op: OpEq, Param: Param{Name: "postedStatus" + n, Value: string(model.PostStatusPosted)}},
		}}, true

	case model.KindMediaType:
		op := OpEq
		if negate {
			op = OpNe
		}
		return Compare{Column: ColMediaType, Op: op, Param: Param{Name: "mediaType" + n, Value: string(it.MediaType)}}, true

	case model.KindCreatedDateStart:
		op := OpGte
		if negate {
			op = OpLt
		}
		return Compare{Column: ColMediaCreatedAt, Op: op, Param: Param{Name: "createdDateStart" + n, Value: it.Date}}, true

	case model.KindCreatedDateEnd:
		op := OpLte
		if negate {
			op = OpGt
		}
		return Compare{Column: ColMediaCreatedAt, Op: op, Param: Param{Name: "createdDateEnd" + n, Value: it.Date}}, true
	}
	return nil, false
}
