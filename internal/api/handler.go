// Package api implements the JSON API: rosters, the project list editor,
// and solver runs.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/courseforge/projmatch/internal/auth"
	"github.com/courseforge/projmatch/internal/dispatcher"
	"github.com/courseforge/projmatch/internal/prefs"
	"github.com/courseforge/projmatch/internal/roster"
	"github.com/courseforge/projmatch/internal/store"
)

// RunDispatcher enqueues solver runs for asynchronous execution
type RunDispatcher interface {
	Enqueue(job *dispatcher.Job) error
}

// Handler handles API requests
type Handler struct {
	store          *store.Store
	dispatcher     RunDispatcher
	auth           *auth.Service
	adminSecret    string
	defaultOptions roster.Options
	converter      *prefs.Converter
}

// NewHandler creates a new API handler
func NewHandler(st *store.Store, disp RunDispatcher, authSvc *auth.Service, adminSecret string, defaultOptions roster.Options) *Handler {
	converter := prefs.NewConverter()
	converter.Options = defaultOptions
	return &Handler{
		store:          st,
		dispatcher:     disp,
		auth:           authSvc,
		adminSecret:    adminSecret,
		defaultOptions: defaultOptions,
		converter:      converter,
	}
}

// RegisterRoutes registers API routes. Mutating routes require a bearer
// token.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/login", h.Login).Methods("POST")

	r.HandleFunc("/api/rosters", h.ListRosters).Methods("GET")
	r.Handle("/api/rosters", h.protect(h.CreateRoster)).Methods("POST")
	r.Handle("/api/rosters/csv", h.protect(h.UploadCSV)).Methods("POST")
	r.HandleFunc("/api/rosters/{id}", h.GetRoster).Methods("GET")

	r.HandleFunc("/api/rosters/{id}/projects", h.ListProjects).Methods("GET")
	r.Handle("/api/rosters/{id}/projects", h.protect(h.AddProject)).Methods("POST")

	r.Handle("/api/rosters/{id}/runs", h.protect(h.CreateRun)).Methods("POST")
	r.HandleFunc("/api/runs", h.ListRuns).Methods("GET")
	r.HandleFunc("/api/runs/{id}", h.GetRun).Methods("GET")
	r.HandleFunc("/api/runs/{id}/report", h.GetRunReport).Methods("GET")
}

func (h *Handler) protect(fn http.HandlerFunc) http.Handler {
	return h.auth.Middleware(fn)
}

// Login exchanges the admin secret for a bearer token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error parsing request", http.StatusBadRequest)
		return
	}
	if req.Secret == "" || req.Secret != h.adminSecret {
		log.Printf("Login rejected: wrong secret")
		http.Error(w, "Invalid secret", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.IssueToken()
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
