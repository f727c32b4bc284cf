package api

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Bhavishyakolloori/todolist-v1/internal/api/respond"
	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/services"
)

const (
	msgFailed       = "Something went wrong!"
	msgDeleteFailed = "Something went wrong while deleting item!"
)

// ListView writes a list page as HTML.
type ListView interface {
	List(w io.Writer, page services.Page) error
}

// ListHandler is the HTTP transport over ListService: it renders pages and
// turns service results into redirects.
type ListHandler struct {
	svc  *services.ListService
	view ListView
}

func NewListHandler(svc *services.ListService, view ListView) *ListHandler {
	return &ListHandler{svc: svc, view: view}
}

// GetToday GET /
func (h *ListHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	page, seeded, err := h.svc.Today(r.Context())
	if err != nil {
		h.fail(w, r, err, msgFailed)
		return
	}
	if seeded {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, page)
}

// GetList GET /{listName}
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["listName"]
	page, created, err := h.svc.Show(r.Context(), name)
	if err != nil {
		h.fail(w, r, err, msgFailed)
		return
	}
	if created {
		http.Redirect(w, r, services.ListPath(name), http.StatusFound)
		return
	}
	h.render(w, r, page)
}

// PostItem POST / with form fields newItem and list.
func (h *ListHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	to, err := h.svc.AddItem(r.Context(), r.PostFormValue("list"), r.PostFormValue("newItem"))
	if err != nil {
		h.fail(w, r, err, msgFailed)
		return
	}
	http.Redirect(w, r, to, http.StatusFound)
}

// PostDelete POST /delete with form fields checkbox (the item id) and listName.
func (h *ListHandler) PostDelete(w http.ResponseWriter, r *http.Request) {
	to, err := h.svc.DeleteItem(r.Context(), r.PostFormValue("listName"), r.PostFormValue("checkbox"))
	if err != nil {
		h.fail(w, r, err, msgDeleteFailed)
		return
	}
	http.Redirect(w, r, to, http.StatusFound)
}

func (h *ListHandler) render(w http.ResponseWriter, r *http.Request, page services.Page) {
	if page.NewListItems == nil {
		page.NewListItems = []model.Item{}
	}
	if respond.WantsJSON(r) {
		respond.WriteJSON(w, r, http.StatusOK, page)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.view.List(w, page); err != nil {
		h.fail(w, r, err, msgFailed)
	}
}

func (h *ListHandler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Stack().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	respond.WriteInternalError(w, r, msg)
}
