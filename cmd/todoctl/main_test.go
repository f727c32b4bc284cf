package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavishyakolloori/todolist-v1/internal/api"
	"github.com/Bhavishyakolloori/todolist-v1/internal/render"
	"github.com/Bhavishyakolloori/todolist-v1/internal/services"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store/memstore"
)

type alwaysHealthy struct{}

func (alwaysHealthy) IsHealthy() bool             { return true }
func (alwaysHealthy) Components() map[string]bool { return nil }

func newServer(t *testing.T) (*httptest.Server, *memstore.MemStore) {
	t.Helper()
	st := memstore.New()
	view, err := render.New()
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewRouter(services.NewListService(st), view, alwaysHealthy{}, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, st
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestShowSeedsToday(t *testing.T) {
	srv, _ := newServer(t)

	out, err := run(t, srv, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Read Book")
	assert.Contains(t, out, "Write Sai's Record")
}

func TestAddShowDeleteCustomList(t *testing.T) {
	srv, st := newServer(t)

	out, err := run(t, srv, "add", "--list", "Groceries", "Milk")
	require.NoError(t, err)
	assert.Contains(t, out, "/groceries")

	out, err = run(t, srv, "show", "groceries")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Milk")

	l, err := st.Lists().FindByName(context.Background(), "groceries")
	require.NoError(t, err)
	require.Len(t, l.Items, 1)

	_, err = run(t, srv, "delete", "--list", "Groceries", l.Items[0].ID)
	require.NoError(t, err)

	l, err = st.Lists().FindByName(context.Background(), "groceries")
	require.NoError(t, err)
	assert.Empty(t, l.Items)
}

func TestAddToToday(t *testing.T) {
	srv, st := newServer(t)

	out, err := run(t, srv, "add", "Call mom")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Call mom" (/)`)

	its, err := st.Items().List(context.Background())
	require.NoError(t, err)
	require.Len(t, its, 1)
	assert.Equal(t, "Call mom", its[0].Name)
}

func TestArgsValidated(t *testing.T) {
	srv, _ := newServer(t)
	_, err := run(t, srv, "add")
	assert.Error(t, err)
	_, err = run(t, srv, "delete")
	assert.Error(t, err)
}
