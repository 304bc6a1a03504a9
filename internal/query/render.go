package query

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// Builder is the minimal capability the compiler needs from a query under
// construction: bind a named value and append an AND-ed clause.
type Builder interface {
	// Bind records value under name and returns the placeholder text to
	// embed in a clause.
	Bind(name string, value any) string
	// Where appends a clause; all clauses are combined with AND.
	Where(clause string)
}

// relation describes the correlated sub-query for a Relation.
type relation struct {
	from  string
	outer string
}

var relations = map[Relation]relation{
	RelTags:   {from: "media_tags mt", outer: "mt.media_id = media.id"},
	RelShoots: {from: "shoot_media sm", outer: "sm.media_id = media.id"},
	RelPosts:  {from: "post_media pm JOIN posts p ON p.id = pm.post_id", outer: "pm.media_id = media.id"},
}

var columns = map[Column]string{
	ColMediaPath:       "media.relative_path",
	ColMediaType:       "media.type",
	ColMediaCreatedAt:  "media.created_at",
	ColTagID:           "mt.tag_id",
	ColShootID:         "sm.shoot_id",
	ColPostChannelID:   "p.channel_id",
	ColPostSubredditID: "p.subreddit_id",
	ColPostStatus:      "p.status",
	ColPostCaption:     "p.caption",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps s in % wildcards after escaping LIKE metacharacters.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Renderer turns predicate trees into SQL for one dialect.
type Renderer struct {
	Dialect Dialect
}

// Render returns the SQL text of p, binding its params through b. A tree
// naming an unknown node type, relation, column or operator is rejected
// before anything is bound. Trees from Build always render.
func (r Renderer) Render(p Predicate, b Builder) (string, error) {
	if err := checkPredicate(p); err != nil {
		return "", err
	}
	return r.render(p, b), nil
}

// render assumes p passed checkPredicate.
func (r Renderer) render(p Predicate, b Builder) string {
	switch n := p.(type) {
	case And:
		if len(n.Terms) == 0 {
			return "1 = 1"
		}
		parts := make([]string, len(n.Terms))
		for i, t := range n.Terms {
			parts[i] = r.render(t, b)
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return "(" + strings.Join(parts, " AND ") + ")"

	case Compare:
		return fmt.Sprintf("%s %s %s", columns[n.Column], n.Op, b.Bind(n.Param.Name, n.Param.Value))

	case Contains:
		text, _ := n.Param.Value.(string)
		ph := b.Bind(n.Param.Name, LikePattern(text))
		return r.Dialect.Contains(columns[n.Column], ph, n.Negated)

	case Exists:
		rel := relations[n.Relation]
		conds := []string{rel.outer}
		for _, t := range n.Where {
			conds = append(conds, r.render(t, b))
		}
		op := "EXISTS"
		if n.Negated {
			op = "NOT EXISTS"
		}
		return fmt.Sprintf("%s (SELECT 1 FROM %s WHERE %s)", op, rel.from, strings.Join(conds, " AND "))
	}
	return ""
}

func checkPredicate(p Predicate) error {
	switch n := p.(type) {
	case And:
		for _, t := range n.Terms {
			if err := checkPredicate(t); err != nil {
				return err
			}
		}
		return nil
	case Compare:
		switch n.Op {
		case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		default:
			return fmt.Errorf("query: unknown operator %q", n.Op)
		}
		return checkColumn(n.Column)
	case Contains:
		return checkColumn(n.Column)
	case Exists:
		if _, ok := relations[n.Relation]; !ok {
			return fmt.Errorf("query: unknown relation %q", n.Relation)
		}
		for _, t := range n.Where {
			if err := checkPredicate(t); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("query: unknown predicate %T", p)
}

func checkColumn(c Column) error {
	if _, ok := columns[c]; !ok {
		return fmt.Errorf("query: unknown column %q", c)
	}
	return nil
}

// Compile appends one clause per compiled filter item to target. Every
// clause is AND-ed with every other one; group boundaries play no part.
// Items of unknown kind produce no clause. Compile keeps no state between
// calls, so concurrent calls are safe as long as each has its own target.
func Compile(filters model.MediaFilters, target Builder, d Dialect) {
	r := Renderer{Dialect: d}
	for _, term := range Build(filters).Terms {
		clause, err := r.Render(term, target)
		if err != nil {
			continue
		}
		target.Where(clause)
	}
}
