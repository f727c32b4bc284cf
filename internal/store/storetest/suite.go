package storetest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store: the Today collection is
// expected to start empty.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("TodaySeedInsertDelete", func(t *testing.T) {
		testToday(t, makeStore(t))
	})
	t.Run("ListLookupIgnoresCase", func(t *testing.T) {
		testLookup(t, makeStore(t))
	})
	t.Run("FindOrCreate", func(t *testing.T) {
		testFindOrCreate(t, makeStore(t))
	})
	t.Run("AppendPushPull", func(t *testing.T) {
		testAppendPushPull(t, makeStore(t))
	})
}

func names(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func uniqueName(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func testToday(t *testing.T, s store.Store) {
	ctx := context.Background()
	items := s.Items()

	got, err := items.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got, "store must start with an empty Today collection")

	seeded, err := items.SeedIfEmpty(ctx, model.DefaultItemNames)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = items.SeedIfEmpty(ctx, model.DefaultItemNames)
	require.NoError(t, err)
	assert.False(t, seeded, "second seed must be skipped")

	got, err = items.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultItemNames, names(got))

	// Names are stored verbatim, including empty and padded text.
	x, err := items.Insert(ctx, "  X ")
	require.NoError(t, err)
	require.NotEmpty(t, x.ID)
	empty, err := items.Insert(ctx, "")
	require.NoError(t, err)

	got, err = items.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Read Book", "Write Sai's Record", "  X ", ""}, names(got), "insertion order")

	require.NoError(t, items.Delete(ctx, x.ID))
	require.NoError(t, items.Delete(ctx, x.ID), "repeated delete is a no-op")
	require.NoError(t, items.Delete(ctx, "not-an-id"), "malformed id is a no-op")

	got, err = items.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Read Book", "Write Sai's Record", ""}, names(got))
	assert.Equal(t, empty.ID, got[2].ID)
}

func testLookup(t *testing.T, s store.Store) {
	ctx := context.Background()
	lists := s.Lists()
	name := uniqueName("Groceries")

	_, err := lists.FindByName(ctx, name)
	require.True(t, errors.Is(err, model.ErrNotFound), "expected ErrNotFound, got %v", err)

	created, err := lists.Create(ctx, name, model.DefaultItemNames)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(name), created.Name, "names are stored lower-cased")
	assert.Equal(t, model.DefaultItemNames, names(created.Items))
	for _, it := range created.Items {
		assert.NotEmpty(t, it.ID)
	}

	for _, variant := range []string{name, strings.ToUpper(name), strings.ToLower(name)} {
		got, err := lists.FindByName(ctx, variant)
		require.NoError(t, err, variant)
		assert.Equal(t, created.ID, got.ID, variant)
	}

	// Anchored match: prefixes and regex metacharacters never match other lists.
	_, err = lists.FindByName(ctx, name[:len(name)-1])
	assert.True(t, errors.Is(err, model.ErrNotFound), "prefix must not match")
	_, err = lists.FindByName(ctx, ".*")
	assert.True(t, errors.Is(err, model.ErrNotFound), "pattern characters are literal")

	_, err = lists.Create(ctx, strings.ToUpper(name), nil)
	assert.True(t, errors.Is(err, model.ErrConflict), "duplicate name must conflict, got %v", err)
}

func testFindOrCreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	lists := s.Lists()
	name := uniqueName("Work")

	first, created, err := lists.FindOrCreate(ctx, name, model.DefaultItemNames)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, strings.ToLower(name), first.Name)
	assert.Equal(t, model.DefaultItemNames, names(first.Items))

	again, created, err := lists.FindOrCreate(ctx, strings.ToUpper(name), []string{"ignored"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Items, again.Items, "existing list must not be reseeded")
}

func testAppendPushPull(t *testing.T, s store.Store) {
	ctx := context.Background()
	lists := s.Lists()
	name := uniqueName("home")

	l, err := lists.Create(ctx, name, model.DefaultItemNames)
	require.NoError(t, err)

	it, err := lists.AppendItem(ctx, l, "Paint fence")
	require.NoError(t, err)
	require.NotEmpty(t, it.ID)
	assert.Len(t, l.Items, 3, "append mirrors onto the caller's list")

	got, err := lists.FindByName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []string{"Read Book", "Write Sai's Record", "Paint fence"}, names(got.Items))

	pushed, created, err := lists.PushItem(ctx, strings.ToUpper(name), "Mow lawn")
	require.NoError(t, err)
	assert.False(t, created)

	got, err = lists.FindByName(ctx, name)
	require.NoError(t, err)
	require.Len(t, got.Items, 4)
	assert.Equal(t, pushed.ID, got.Items[3].ID)

	// Pull restores the prior length; repeating it is a no-op.
	require.NoError(t, lists.PullItem(ctx, strings.ToUpper(name), pushed.ID))
	require.NoError(t, lists.PullItem(ctx, name, pushed.ID))
	require.NoError(t, lists.PullItem(ctx, name, "not-an-id"))
	require.NoError(t, lists.PullItem(ctx, uniqueName("missing"), it.ID))

	got, err = lists.FindByName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []string{"Read Book", "Write Sai's Record", "Paint fence"}, names(got.Items))

	// Pushing to an unknown name creates a list holding only that item.
	fresh := uniqueName("Errands")
	only, created, err := lists.PushItem(ctx, fresh, "X")
	require.NoError(t, err)
	assert.True(t, created)
	got, err = lists.FindByName(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(fresh), got.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, only.ID, got.Items[0].ID)
	assert.Equal(t, "X", got.Items[0].Name)

	// Items embedded in one list are independent of the Today collection.
	today, err := s.Items().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, today)
}
