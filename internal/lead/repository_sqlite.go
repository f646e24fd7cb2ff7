package lead

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepo implements Repository over the contact_submissions table.
type SQLiteRepo struct {
	DB *sql.DB
}

func (r *SQLiteRepo) Create(ctx context.Context, s Submission) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO contact_submissions(id, kind, name, email, phone, business, message, created_at)
VALUES(?,?,?,?,?,?,?,?)
`, s.ID, string(s.Kind), s.Form.Name, s.Form.Email, s.Form.Phone, s.Form.Business, s.Form.Message,
		s.CreatedAt.UTC().Format(timeLayout))
	return err
}

// List filters by kind and a case-insensitive substring over name, email,
// business and message. Both sides fold with casefold, which the db
// package registers on every connection.
func (r *SQLiteRepo) List(ctx context.Context, f Filter) ([]Submission, error) {
	f = f.Clamped()

	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Query != "" {
		like := "%" + escapeLike(strings.ToLower(f.Query)) + "%"
		where = append(where, `(casefold(name) LIKE ? ESCAPE '\' OR casefold(email) LIKE ? ESCAPE '\' OR casefold(business) LIKE ? ESCAPE '\' OR casefold(message) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like, like)
	}

	q := `SELECT id, kind, name, email, phone, business, message, created_at FROM contact_submissions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	out := []Submission{}
	for rows.Next() {
		var (
			s       Submission
			kind    string
			created string
		)
		if err := rows.Scan(&s.ID, &kind, &s.Form.Name, &s.Form.Email, &s.Form.Phone, &s.Form.Business, &s.Form.Message, &created); err != nil {
			return nil, err
		}
		s.Kind = Kind(kind)
		t, err := time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("scan submission %s created_at: %w", s.ID, err)
		}
		s.CreatedAt = t
		out = append(out, s)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
