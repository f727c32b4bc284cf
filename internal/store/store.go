package store

import (
	"context"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (mongo, postgres, sqlite, memstore).
type Store interface {
	Items() Items
	Lists() Lists
	Close(ctx context.Context) error
}

// Items is the Today collection: top-level item records in insertion order.
type Items interface {
	List(ctx context.Context) ([]model.Item, error)
	Insert(ctx context.Context, name string) (*model.Item, error)
	// SeedIfEmpty inserts one item per name in a single batch, but only when
	// the collection holds no items. It reports whether it inserted.
	SeedIfEmpty(ctx context.Context, names []string) (bool, error)
	// Delete removes the item with the given ID. Unknown or malformed IDs are a no-op.
	Delete(ctx context.Context, id string) error
}

// Lists holds the named custom lists. Names are stored lower-cased and are
// unique; lookups ignore case.
type Lists interface {
	// FindByName returns model.ErrNotFound when no list matches name ignoring case.
	FindByName(ctx context.Context, name string) (*model.List, error)
	// Create inserts a list under the lower-cased name holding one item per
	// entry of itemNames. Returns model.ErrConflict if the name is taken.
	Create(ctx context.Context, name string, itemNames []string) (*model.List, error)
	// FindOrCreate atomically returns the existing list or creates it seeded
	// with itemNames. created reports which happened.
	FindOrCreate(ctx context.Context, name string, itemNames []string) (l *model.List, created bool, err error)
	// AppendItem pushes a new item onto list and mirrors it onto list.Items.
	AppendItem(ctx context.Context, list *model.List, itemName string) (*model.Item, error)
	// PushItem appends to the named list, creating a list holding only this
	// item when none exists.
	PushItem(ctx context.Context, name, itemName string) (item *model.Item, created bool, err error)
	// PullItem removes the embedded item with the given ID from the named list.
	// Missing lists or items are a no-op.
	PullItem(ctx context.Context, name, itemID string) error
}

// Bootstrapper is implemented by stores that need connectivity checks and
// schema or index setup before serving.
type Bootstrapper interface {
	Bootstrap(ctx context.Context) error
}
