// Package sqlite implements store.Store on a local SQLite file. Embedded list
// items are kept as a JSON array in the lists table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

type SqliteStore struct {
	db *sql.DB
}

// New opens path, applies the schema and returns the store.
func New(path string) (*SqliteStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wires an existing connection; the schema must already exist.
func NewWithDB(db *sql.DB) *SqliteStore { return &SqliteStore{db: db} }

// DB exposes the underlying connection.
func (s *SqliteStore) DB() *sql.DB { return s.db }

func (s *SqliteStore) Items() store.Items { return &items{db: s.db} }
func (s *SqliteStore) Lists() store.Lists { return &lists{db: s.db} }

func (s *SqliteStore) Close(_ context.Context) error { return s.db.Close() }

// HealthPing implements health.HealthPinger.
func (s *SqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap verifies connectivity and applies the schema; it is idempotent.
func (s *SqliteStore) Bootstrap(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	return EnsureSchema(s.db)
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func newItem(name string) model.Item {
	return model.Item{ID: uuid.New().String(), Name: name}
}

// --- Today items ---
type items struct{ db *sql.DB }

func (i *items) List(ctx context.Context) ([]model.Item, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT id, name FROM today_items ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (i *items) Insert(ctx context.Context, name string) (*model.Item, error) {
	it := newItem(name)
	if _, err := i.db.ExecContext(ctx, `INSERT INTO today_items (id, name) VALUES (?, ?)`, it.ID, it.Name); err != nil {
		return nil, err
	}
	return &it, nil
}

func (i *items) SeedIfEmpty(ctx context.Context, names []string) (bool, error) {
	seeded := false
	err := withTx(ctx, i.db, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM today_items`).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, name := range names {
			it := newItem(name)
			if _, err := tx.ExecContext(ctx, `INSERT INTO today_items (id, name) VALUES (?, ?)`, it.ID, it.Name); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func (i *items) Delete(ctx context.Context, id string) error {
	_, err := i.db.ExecContext(ctx, `DELETE FROM today_items WHERE id = ?`, id)
	return err
}

// --- Lists ---
type lists struct{ db *sql.DB }

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanList(row *sql.Row) (*model.List, error) {
	var out model.List
	var raw string
	if err := row.Scan(&out.ID, &out.Name, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &out.Items); err != nil {
		return nil, fmt.Errorf("decode items of list %q: %w", out.Name, err)
	}
	return &out, nil
}

func getByName(ctx context.Context, q queryer, name string) (*model.List, error) {
	return scanList(q.QueryRowContext(ctx, `SELECT id, name, items FROM lists WHERE name = ?`, model.CanonicalName(name)))
}

func insertList(ctx context.Context, tx *sql.Tx, key string, its []model.Item) (*model.List, error) {
	if its == nil {
		its = []model.Item{}
	}
	raw, err := json.Marshal(its)
	if err != nil {
		return nil, err
	}
	l := &model.List{ID: uuid.New().String(), Name: key, Items: its}
	if _, err := tx.ExecContext(ctx, `INSERT INTO lists (id, name, items) VALUES (?, ?, ?)`, l.ID, l.Name, string(raw)); err != nil {
		return nil, err
	}
	return l, nil
}

func writeItems(ctx context.Context, tx *sql.Tx, id string, its []model.Item) error {
	raw, err := json.Marshal(its)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE lists SET items = ? WHERE id = ?`, string(raw), id)
	return err
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
	return getByName(ctx, l.db, name)
}

func (l *lists) Create(ctx context.Context, name string, itemNames []string) (*model.List, error) {
	var out *model.List
	err := withTx(ctx, l.db, func(tx *sql.Tx) error {
		if _, err := getByName(ctx, tx, name); err == nil {
			return model.ErrConflict
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		var err error
		out, err = insertList(ctx, tx, model.CanonicalName(name), seedItems(itemNames))
		return err
	})
	return out, err
}

func (l *lists) FindOrCreate(ctx context.Context, name string, itemNames []string) (*model.List, bool, error) {
	var out *model.List
	created := false
	err := withTx(ctx, l.db, func(tx *sql.Tx) error {
		found, err := getByName(ctx, tx, name)
		if err == nil {
			out = found
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		out, err = insertList(ctx, tx, model.CanonicalName(name), seedItems(itemNames))
		created = err == nil
		return err
	})
	return out, created, err
}

func (l *lists) AppendItem(ctx context.Context, list *model.List, itemName string) (*model.Item, error) {
	it := newItem(itemName)
	err := withTx(ctx, l.db, func(tx *sql.Tx) error {
		stored, err := scanList(tx.QueryRowContext(ctx, `SELECT id, name, items FROM lists WHERE id = ?`, list.ID))
		if err != nil {
			return err
		}
		return writeItems(ctx, tx, stored.ID, append(stored.Items, it))
	})
	if err != nil {
		return nil, err
	}
	list.Items = append(list.Items, it)
	return &it, nil
}

func (l *lists) PushItem(ctx context.Context, name, itemName string) (*model.Item, bool, error) {
	it := newItem(itemName)
	created := false
	err := withTx(ctx, l.db, func(tx *sql.Tx) error {
		stored, err := getByName(ctx, tx, name)
		if errors.Is(err, model.ErrNotFound) {
			_, err = insertList(ctx, tx, model.CanonicalName(name), []model.Item{it})
			created = err == nil
			return err
		}
		if err != nil {
			return err
		}
		return writeItems(ctx, tx, stored.ID, append(stored.Items, it))
	})
	if err != nil {
		return nil, false, err
	}
	return &it, created, nil
}

func (l *lists) PullItem(ctx context.Context, name, itemID string) error {
	return withTx(ctx, l.db, func(tx *sql.Tx) error {
		stored, err := getByName(ctx, tx, name)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		kept := make([]model.Item, 0, len(stored.Items))
		for _, it := range stored.Items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		if len(kept) == len(stored.Items) {
			return nil
		}
		return writeItems(ctx, tx, stored.ID, kept)
	})
}
