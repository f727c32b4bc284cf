package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Bhavishyakolloori/todolist-v1/internal/api/recovery"
	"github.com/Bhavishyakolloori/todolist-v1/internal/render"
	"github.com/Bhavishyakolloori/todolist-v1/internal/services"
)

// NewRouter wires the list routes and the operational endpoints.
// Fixed paths are registered before the /{listName} catch-all so they win.
func NewRouter(svc *services.ListService, view ListView, health HealthReporter, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(Instrument(log), recovery.Middleware)

	// Operational
	healthHandler := NewHealthHandler(health)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	root.PathPrefix("/static/").Handler(http.StripPrefix("/static/", render.Static())).Methods(http.MethodGet)
	root.Handle("/favicon.ico", http.NotFoundHandler())

	// Lists
	lists := NewListHandler(svc, view)
	root.HandleFunc("/", lists.GetToday).Methods(http.MethodGet)
	root.HandleFunc("/", lists.PostItem).Methods(http.MethodPost)
	root.HandleFunc("/delete", lists.PostDelete).Methods(http.MethodPost)
	root.HandleFunc("/{listName}", lists.GetList).Methods(http.MethodGet)
	return root
}
