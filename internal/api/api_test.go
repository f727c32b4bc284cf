package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/render"
	"github.com/Bhavishyakolloori/todolist-v1/internal/services"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store/memstore"
)

type staticHealth bool

func (s staticHealth) IsHealthy() bool { return bool(s) }
func (s staticHealth) Components() map[string]bool {
	return map[string]bool{"store": bool(s)}
}

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	view, err := render.New()
	require.NoError(t, err)
	return NewRouter(services.NewListService(st), view, staticHealth(true), zerolog.Nop())
}

func get(h http.Handler, path string, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPage(t *testing.T, h http.Handler, path string) services.Page {
	t.Helper()
	rec := get(h, path, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page services.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	return page
}

func itemNames(its []model.Item) []string {
	out := make([]string, 0, len(its))
	for _, it := range its {
		out = append(out, it.Name)
	}
	return out
}

func TestGetToday_SeedsThenRenders(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	rec := get(h, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	its, err := st.Items().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultItemNames, itemNames(its))

	rec = get(h, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>Today</h1>")
	assert.Contains(t, rec.Body.String(), "Read Book")

	// Already seeded; nothing more is added.
	_ = get(h, "/", "")
	its, err = st.Items().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, its, 2)
}

func TestGetList_CreatesOnceAndIgnoresCase(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	rec := get(h, "/Work", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/work", rec.Header().Get("Location"))

	upper := getPage(t, h, "/Work")
	lower := getPage(t, h, "/work")
	assert.Equal(t, "Work", upper.ListTitle)
	assert.Equal(t, "Work", lower.ListTitle)
	assert.Equal(t, upper.NewListItems, lower.NewListItems)
	assert.Equal(t, model.DefaultItemNames, itemNames(lower.NewListItems))

	// Viewing an existing list mutates nothing.
	again := getPage(t, h, "/WORK")
	assert.Equal(t, lower.NewListItems, again.NewListItems)

	html := get(h, "/work", "text/html")
	assert.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Body.String(), "<h1>Work</h1>")
	assert.Contains(t, html.Body.String(), `name="list" value="Work"`)
}

func TestGetList_EscapedName(t *testing.T) {
	h := newTestRouter(t, memstore.New())

	rec := get(h, "/Work%20Stuff", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/work%20stuff", rec.Header().Get("Location"))

	page := getPage(t, h, "/work%20stuff")
	assert.Equal(t, "Work stuff", page.ListTitle)
}

func TestPostItem_Today(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	rec := postForm(h, "/", url.Values{"list": {"Today"}, "newItem": {"X"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	its, err := st.Items().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, itemNames(its))
}

func TestPostItem_CreatesMissingListWithoutDefaults(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	rec := postForm(h, "/", url.Values{"list": {"groceries"}, "newItem": {"X"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/groceries", rec.Header().Get("Location"))

	l, err := st.Lists().FindByName(context.Background(), "groceries")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, itemNames(l.Items))

	// The lower-case "today" is an ordinary custom list.
	rec = postForm(h, "/", url.Values{"list": {"today"}, "newItem": {"Y"}})
	assert.Equal(t, "/today", rec.Header().Get("Location"))
	its, err := st.Items().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, its)
}

func TestPostDelete_TodayIsIdempotent(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)
	ctx := context.Background()

	_, err := st.Items().SeedIfEmpty(ctx, model.DefaultItemNames)
	require.NoError(t, err)
	its, err := st.Items().List(ctx)
	require.NoError(t, err)
	target := its[0]

	form := url.Values{"listName": {"Today"}, "checkbox": {target.ID}}
	rec := postForm(h, "/delete", form)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	left, err := st.Items().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, its[1:], left)

	rec = postForm(h, "/delete", form)
	assert.Equal(t, http.StatusFound, rec.Code)
	again, err := st.Items().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, left, again)
}

func TestAddDeleteRoundTrip(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	require.Equal(t, http.StatusFound, get(h, "/Errands", "").Code)
	before := getPage(t, h, "/errands")

	rec := postForm(h, "/", url.Values{"list": {"Errands"}, "newItem": {"Post office"}})
	assert.Equal(t, "/errands", rec.Header().Get("Location"))
	added := getPage(t, h, "/errands")
	require.Len(t, added.NewListItems, len(before.NewListItems)+1)
	last := added.NewListItems[len(added.NewListItems)-1]
	assert.Equal(t, "Post office", last.Name)

	rec = postForm(h, "/delete", url.Values{"listName": {"Errands"}, "checkbox": {last.ID}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/errands", rec.Header().Get("Location"))
	after := getPage(t, h, "/errands")
	assert.Equal(t, before.NewListItems, after.NewListItems)
}

func TestDeleteFromMissingListCreatesNothing(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	rec := postForm(h, "/delete", url.Values{"listName": {"Ghost"}, "checkbox": {"nope"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/ghost", rec.Header().Get("Location"))

	_, err := st.Lists().FindByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestJSONViewOfEmptyList(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)
	ctx := context.Background()

	it, _, err := st.Lists().PushItem(ctx, "solo", "only")
	require.NoError(t, err)
	require.NoError(t, st.Lists().PullItem(ctx, "solo", it.ID))

	rec := get(h, "/solo", "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"listTitle":"Solo","newListItems":[]}`, rec.Body.String())
}

// brokenStore fails lookups and deletes while letting inserts through.
type brokenStore struct{ *memstore.MemStore }

type brokenItems struct{ store.Items }

type brokenLists struct{ store.Lists }

var errDown = errors.New("database down")

func (s brokenStore) Items() store.Items { return brokenItems{s.MemStore.Items()} }
func (s brokenStore) Lists() store.Lists { return brokenLists{s.MemStore.Lists()} }

func (brokenItems) List(context.Context) ([]model.Item, error) { return nil, errDown }
func (brokenItems) Delete(context.Context, string) error       { return errDown }

func (brokenLists) FindByName(context.Context, string) (*model.List, error) { return nil, errDown }
func (brokenLists) PullItem(context.Context, string, string) error          { return errDown }

func TestStoreFailuresAnswer500(t *testing.T) {
	h := newTestRouter(t, brokenStore{memstore.New()})

	for _, rec := range []*httptest.ResponseRecorder{
		get(h, "/", ""),
		get(h, "/work", ""),
		postForm(h, "/", url.Values{"list": {"work"}, "newItem": {"X"}}),
	} {
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Something went wrong!", rec.Body.String())
	}

	for _, list := range []string{"Today", "work"} {
		rec := postForm(h, "/delete", url.Values{"listName": {list}, "checkbox": {"x"}})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Something went wrong while deleting item!", rec.Body.String())
	}

	rec := get(h, "/work", "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","code":500,"message":"Something went wrong!"}`, rec.Body.String())
}

func TestOperationalRoutes(t *testing.T) {
	st := memstore.New()
	h := newTestRouter(t, st)

	rec := get(h, "/favicon.ico", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, err := st.Lists().FindByName(context.Background(), "favicon.ico")
	assert.ErrorIs(t, err, model.ErrNotFound)

	rec = get(h, "/static/styles.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(h, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status     string          `json:"status"`
		Components map[string]bool `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, map[string]bool{"store": true}, body.Components)

	rec = get(h, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "todolist_http_requests_total")

	rec = postForm(h, "/somewhere", url.Values{})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
