package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/query"
)

// mediaColumns is the column list used for SELECT statements on the media table.
const mediaColumns = `media.id, media.relative_path, media.name, media.type, media.size,
	media.created_at, media.updated_at`

const presetColumns = `id, name, filters, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds every statement; Store and txStore embed it.
type queries struct {
	db      executor
	dialect query.Dialect
}

// rebind rewrites ? placeholders into the dialect's positional form.
func (q queries) rebind(s string) string {
	if q.dialect.Name() != query.Postgres.Name() {
		return s
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (q queries) exec(ctx context.Context, s string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.rebind(s), args...)
}

func (q queries) queryRows(ctx context.Context, s string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.rebind(s), args...)
}

func (q queries) queryRow(ctx context.Context, s string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.rebind(s), args...)
}

func (q queries) CreateMedia(ctx context.Context, m *model.Media) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	_, err := q.exec(ctx, `
		INSERT INTO media (id, relative_path, name, type, size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.RelativePath,
		m.Name,
		string(m.Type),
		m.Size,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	)
	return err
}

func (q queries) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	row := q.queryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE media.id = ?`, id)
	m, err := scanMedia(row)
	if err != nil {
		return nil, err
	}

	tags, err := q.GetTags(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Tags = tags

	shoots, err := q.GetShoots(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Shoots = shoots

	return m, nil
}

// ListMedia compiles mq.Filters into the WHERE clause and returns one page of
// media plus the total number of matches.
func (q queries) ListMedia(ctx context.Context, mq model.MediaQuery) ([]*model.Media, int, error) {
	stmt := query.NewStatement(q.dialect)
	query.Compile(mq.Filters, stmt, q.dialect)

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + mediaColumns +
		" FROM media" + stmt.WhereSQL() + " ORDER BY " + parseSortClause(mq.Sort)

	if mq.Limit > 0 {
		dataQuery += " LIMIT " + stmt.Bind("limit", mq.Limit)
	} else if mq.Offset > 0 && q.dialect.Name() == query.SQLite.Name() {
		// SQLite only accepts OFFSET after a LIMIT.
		dataQuery += " LIMIT -1"
	}
	if mq.Offset > 0 {
		dataQuery += " OFFSET " + stmt.Bind("offset", mq.Offset)
	}

	rows, err := q.db.QueryContext(ctx, dataQuery, stmt.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var media []*model.Media
	var total int
	for rows.Next() {
		m, t, err := scanMediaWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan media: %w", err)
		}
		total = t
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan media: %w", err)
	}

	return media, total, nil
}

func (q queries) DeleteMedia(ctx context.Context, id string) error {
	res, err := q.exec(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (q queries) AddTag(ctx context.Context, mediaID, tagID string) error {
	_, err := q.exec(ctx, `
		INSERT INTO media_tags (media_id, tag_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING`,
		mediaID, tagID,
	)
	return err
}

func (q queries) RemoveTag(ctx context.Context, mediaID, tagID string) error {
	_, err := q.exec(ctx, `
		DELETE FROM media_tags
		WHERE media_id = ? AND tag_id = ?`,
		mediaID, tagID,
	)
	return err
}

func (q queries) GetTags(ctx context.Context, mediaID string) ([]string, error) {
	rows, err := q.queryRows(ctx, `
		SELECT tag_id FROM media_tags WHERE media_id = ? ORDER BY tag_id`,
		mediaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (q queries) AddToShoot(ctx context.Context, mediaID, shootID string) error {
	_, err := q.exec(ctx, `
		INSERT INTO shoot_media (shoot_id, media_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING`,
		shootID, mediaID,
	)
	return err
}

func (q queries) RemoveFromShoot(ctx context.Context, mediaID, shootID string) error {
	_, err := q.exec(ctx, `
		DELETE FROM shoot_media
		WHERE shoot_id = ? AND media_id = ?`,
		shootID, mediaID,
	)
	return err
}

func (q queries) GetShoots(ctx context.Context, mediaID string) ([]string, error) {
	rows, err := q.queryRows(ctx, `
		SELECT shoot_id FROM shoot_media WHERE media_id = ? ORDER BY shoot_id`,
		mediaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// CreatePost inserts the post and links its media. Callers wanting both
// steps to be atomic run it inside RunInTransaction.
func (q queries) CreatePost(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.Date.IsZero() {
		p.Date = p.CreatedAt
	}
	if _, err := q.exec(ctx, `
		INSERT INTO posts (id, channel_id, subreddit_id, caption, status, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.ChannelID,
		nullString(p.SubredditID),
		p.Caption,
		string(p.Status),
		p.Date.UTC(),
		p.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	for _, mediaID := range p.MediaIDs {
		if _, err := q.exec(ctx, `
			INSERT INTO post_media (post_id, media_id)
			VALUES (?, ?)`,
			p.ID, mediaID,
		); err != nil {
			return fmt.Errorf("link media %s: %w", mediaID, err)
		}
	}
	return nil
}

// SaveFilterPreset inserts the preset or replaces the one with the same ID.
func (q queries) SaveFilterPreset(ctx context.Context, p *model.FilterPreset) error {
	filters, err := json.Marshal(p.Filters)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if _, err := q.exec(ctx, `
		INSERT INTO filter_presets (id, name, filters, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			filters = excluded.filters,
			updated_at = excluded.updated_at`,
		p.ID,
		p.Name,
		string(filters),
		p.CreatedAt.UTC(),
		p.UpdatedAt,
	); err != nil {
		return err
	}

	// An update keeps the original creation time.
	return q.queryRow(ctx, `SELECT created_at FROM filter_presets WHERE id = ?`, p.ID).Scan(&p.CreatedAt)
}

func (q queries) GetFilterPreset(ctx context.Context, id string) (*model.FilterPreset, error) {
	row := q.queryRow(ctx, `SELECT `+presetColumns+` FROM filter_presets WHERE id = ?`, id)
	return scanPreset(row)
}

func (q queries) ListFilterPresets(ctx context.Context) ([]*model.FilterPreset, error) {
	rows, err := q.queryRows(ctx, `SELECT `+presetColumns+` FROM filter_presets ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPresets(rows)
}

func (q queries) DeleteFilterPreset(ctx context.Context, id string) error {
	res, err := q.exec(ctx, `DELETE FROM filter_presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// requireAffected turns a statement that touched no rows into sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "media.created_at DESC, media.id"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
		"relative_path": true, "size": true, "type": true,
	}
	if !allowed[col] {
		return "media.created_at DESC, media.id"
	}
	if desc {
		return "media." + col + " DESC, media.id"
	}
	return "media." + col + " ASC, media.id"
}
