package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

// Open opens a PostgreSQL connection pool using the pgx stdlib driver.
// Connectivity is not verified here; see Bootstrap.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	return sql.Open("pgx", dsn)
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) *PgStore { return &PgStore{db: db} }

type PgStore struct{ db *sql.DB }

func (s *PgStore) Items() store.Items { return &items{db: s.db} }
func (s *PgStore) Lists() store.Lists { return &lists{db: s.db} }

func (s *PgStore) Close(_ context.Context) error { return s.db.Close() }

// DB exposes the underlying pool.
func (s *PgStore) DB() *sql.DB { return s.db }

// HealthPing implements health.HealthPinger for Postgres-backed store.
func (s *PgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap verifies connectivity and applies the schema.
func (s *PgStore) Bootstrap(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	return EnsureSchema(ctx, s.db)
}

func newItem(name string) model.Item {
	return model.Item{ID: uuid.New().String(), Name: name}
}

func encodeItems(its []model.Item) ([]byte, error) {
	if its == nil {
		its = []model.Item{}
	}
	return json.Marshal(its)
}

// --- Today items ---
type items struct{ db *sql.DB }

func (i *items) List(ctx context.Context) ([]model.Item, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT id, name FROM today_items ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (i *items) Insert(ctx context.Context, name string) (*model.Item, error) {
	it := newItem(name)
	if _, err := i.db.ExecContext(ctx, `INSERT INTO today_items (id, name) VALUES ($1, $2)`, it.ID, it.Name); err != nil {
		return nil, err
	}
	return &it, nil
}

func (i *items) SeedIfEmpty(ctx context.Context, names []string) (bool, error) {
	tx, err := i.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	// Serialize concurrent seeders; inserts wait until the seed commits.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE today_items IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM today_items)`).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	for _, name := range names {
		it := newItem(name)
		if _, err := tx.ExecContext(ctx, `INSERT INTO today_items (id, name) VALUES ($1, $2)`, it.ID, it.Name); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

func (i *items) Delete(ctx context.Context, id string) error {
	_, err := i.db.ExecContext(ctx, `DELETE FROM today_items WHERE id = $1`, id)
	return err
}

// --- Lists ---
type lists struct{ db *sql.DB }

func scanList(row *sql.Row) (*model.List, error) {
	var out model.List
	var raw []byte
	if err := row.Scan(&out.ID, &out.Name, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &out.Items); err != nil {
		return nil, fmt.Errorf("decode items of list %q: %w", out.Name, err)
	}
	return &out, nil
}

func seedItems(names []string) []model.Item {
	out := make([]model.Item, 0, len(names))
	for _, n := range names {
		out = append(out, newItem(n))
	}
	return out
}

// FindByName matches the lower-cased name; every stored name is lower-cased.
func (l *lists) FindByName(ctx context.Context, name string) (*model.List, error) {
	return scanList(l.db.QueryRowContext(ctx, `
        SELECT id, name, items FROM lists WHERE name = $1
    `, model.CanonicalName(name)))
}

func (l *lists) Create(ctx context.Context, name string, itemNames []string) (*model.List, error) {
	its := seedItems(itemNames)
	raw, err := encodeItems(its)
	if err != nil {
		return nil, err
	}
	out, err := scanList(l.db.QueryRowContext(ctx, `
        INSERT INTO lists (id, name, items) VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (name) DO NOTHING
        RETURNING id, name, items
    `, uuid.New().String(), model.CanonicalName(name), string(raw)))
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrConflict
	}
	return out, err
}

func (l *lists) FindOrCreate(ctx context.Context, name string, itemNames []string) (*model.List, bool, error) {
	out, err := l.Create(ctx, name, itemNames)
	if err == nil {
		return out, true, nil
	}
	if !errors.Is(err, model.ErrConflict) {
		return nil, false, err
	}
	// Lists are never deleted, so the conflicting row is still there.
	out, err = l.FindByName(ctx, name)
	return out, false, err
}

func (l *lists) AppendItem(ctx context.Context, list *model.List, itemName string) (*model.Item, error) {
	it := newItem(itemName)
	raw, err := encodeItems([]model.Item{it})
	if err != nil {
		return nil, err
	}
	res, err := l.db.ExecContext(ctx, `UPDATE lists SET items = items || $2::jsonb WHERE id = $1`, list.ID, string(raw))
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, model.ErrNotFound
	}
	list.Items = append(list.Items, it)
	return &it, nil
}

func (l *lists) PushItem(ctx context.Context, name, itemName string) (*model.Item, bool, error) {
	it := newItem(itemName)
	raw, err := encodeItems([]model.Item{it})
	if err != nil {
		return nil, false, err
	}
	var inserted bool
	row := l.db.QueryRowContext(ctx, `
        INSERT INTO lists (id, name, items) VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (name) DO UPDATE SET items = lists.items || EXCLUDED.items
        RETURNING (xmax = 0)
    `, uuid.New().String(), model.CanonicalName(name), string(raw))
	if err := row.Scan(&inserted); err != nil {
		return nil, false, err
	}
	return &it, inserted, nil
}

func (l *lists) PullItem(ctx context.Context, name, itemID string) error {
	_, err := l.db.ExecContext(ctx, `
        UPDATE lists SET items = COALESCE((
            SELECT jsonb_agg(e ORDER BY ord)
            FROM jsonb_array_elements(items) WITH ORDINALITY AS t(e, ord)
            WHERE e->>'id' <> $2
        ), '[]'::jsonb)
        WHERE name = $1
    `, model.CanonicalName(name), itemID)
	return err
}
