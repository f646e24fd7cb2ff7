package webhook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Repository persists webhook endpoints for the admin API.
type Repository interface {
	Registry
	List(ctx context.Context) ([]Endpoint, error)
	Get(ctx context.Context, id string) (Endpoint, error)
	Create(ctx context.Context, e Endpoint) (Endpoint, error)
	Update(ctx context.Context, id string, in EndpointInput) (Endpoint, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteRepo implements Repository over SQLite.
type SQLiteRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const endpointColumns = `id, name, url, is_active, created_at, updated_at`

func (r *SQLiteRepo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// ListActive returns every endpoint with is_active set, read fresh on each call.
func (r *SQLiteRepo) ListActive(ctx context.Context) ([]Endpoint, error) {
	return r.query(ctx, `SELECT `+endpointColumns+` FROM webhook_endpoints WHERE is_active = 1 ORDER BY created_at`)
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Endpoint, error) {
	return r.query(ctx, `SELECT `+endpointColumns+` FROM webhook_endpoints ORDER BY created_at`)
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (Endpoint, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+endpointColumns+` FROM webhook_endpoints WHERE id = ?`, id)
	e, err := scanEndpoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Ctx(ctx).Debug().Str("endpoint_id", id).Msg("Webhook endpoint not found")
		return Endpoint{}, ErrNotFound
	}
	return e, err
}

func (r *SQLiteRepo) Create(ctx context.Context, e Endpoint) (Endpoint, error) {
	if err := e.Validate(); err != nil {
		return Endpoint{}, err
	}
	now := r.now()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = now, now

	_, err := r.DB.ExecContext(ctx, `
INSERT INTO webhook_endpoints(id, name, url, is_active, created_at, updated_at)
VALUES(?,?,?,?,?,?)
`, e.ID, e.Name, e.URL, e.IsActive, formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return Endpoint{}, err
	}
	return e, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, id string, in EndpointInput) (Endpoint, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return Endpoint{}, err
	}
	next := in.Apply(cur)
	if err := next.Validate(); err != nil {
		return Endpoint{}, err
	}
	next.UpdatedAt = r.now()

	res, err := r.DB.ExecContext(ctx, `
UPDATE webhook_endpoints SET name = ?, url = ?, is_active = ?, updated_at = ?
WHERE id = ?
`, next.Name, next.URL, next.IsActive, formatTime(next.UpdatedAt), id)
	if err != nil {
		return Endpoint{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Endpoint{}, ErrNotFound
	}
	return next, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM webhook_endpoints WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) query(ctx context.Context, q string, args ...any) ([]Endpoint, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var out []Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEndpoint(s scanner) (Endpoint, error) {
	var (
		e                Endpoint
		created, updated string
	)
	if err := s.Scan(&e.ID, &e.Name, &e.URL, &e.IsActive, &created, &updated); err != nil {
		return Endpoint{}, err
	}
	var err error
	if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Endpoint{}, fmt.Errorf("scan endpoint %s created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return Endpoint{}, fmt.Errorf("scan endpoint %s updated_at: %w", e.ID, err)
	}
	return e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
