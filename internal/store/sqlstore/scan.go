package sqlstore

import (
	"database/sql"

	"github.com/alfredjeanlab/medialib/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanMedia scans a single row into a model.Media.
// The row must contain columns in the order defined by mediaColumns.
func scanMedia(row scannable) (*model.Media, error) {
	var m model.Media
	err := row.Scan(
		&m.ID,
		&m.RelativePath,
		&m.Name,
		&m.Type,
		&m.Size,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// scanMediaWithTotal scans a row that has a leading total_count column
// followed by the standard media columns.
func scanMediaWithTotal(row scannable) (*model.Media, int, error) {
	var (
		m     model.Media
		total int
	)
	err := row.Scan(
		&total,
		&m.ID,
		&m.RelativePath,
		&m.Name,
		&m.Type,
		&m.Size,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}
	return &m, total, nil
}

// scanPreset scans a filter preset row. The stored filters go through
// model.Sanitize, so presets written by older clients load as current ones.
func scanPreset(row scannable) (*model.FilterPreset, error) {
	var (
		p       model.FilterPreset
		filters []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &filters, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Filters = model.Sanitize(filters)
	return &p, nil
}

func scanPresets(rows *sql.Rows) ([]*model.FilterPreset, error) {
	var presets []*model.FilterPreset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// nullString converts an empty string to a NULL value.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
