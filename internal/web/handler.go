package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/courseforge/projmatch/internal/editor"
	"github.com/courseforge/projmatch/internal/report"
	"github.com/courseforge/projmatch/internal/store"
)

//go:embed templates/*
var templatesFS embed.FS

// Handler handles web UI requests
type Handler struct {
	store     *store.Store
	templates *template.Template
}

// NewHandler creates a new web handler
func NewHandler(st *store.Store) (*Handler, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		"statusColor":   statusColor,
		"statusIcon":    statusIcon,
		"logLevelColor": logLevelColor,
	})
	tmpl, err := tmpl.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		store:     st,
		templates: tmpl,
	}, nil
}

// RegisterRoutes registers web UI routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleRosterList).Methods("GET")
	r.HandleFunc("/roster/{id}", h.handleRosterDetail).Methods("GET")
	r.HandleFunc("/roster/{id}/projects", h.handleAddProject).Methods("POST")
	r.HandleFunc("/run/{id}", h.handleRunDetail).Methods("GET")
}

// handleRosterList renders the roster list page
func (h *Handler) handleRosterList(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.store.ListRosters()
	if err != nil {
		log.Printf("Failed to list rosters: %v", err)
		http.Error(w, "Failed to list rosters", http.StatusInternalServerError)
		return
	}

	data := struct {
		Rosters []*store.RosterRecord
	}{
		Rosters: rosters,
	}

	if err := h.templates.ExecuteTemplate(w, "roster_list.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleRosterDetail renders one roster with its project editor and runs
func (h *Handler) handleRosterDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rosterID := vars["id"]

	rec, err := h.store.GetRoster(rosterID)
	if err != nil {
		http.Error(w, "Roster not found", http.StatusNotFound)
		return
	}

	names, err := h.store.ProjectNames(rosterID)
	if err != nil {
		log.Printf("Failed to list projects for roster %s: %v", rosterID, err)
		http.Error(w, "Failed to list projects", http.StatusInternalServerError)
		return
	}
	list := editor.NewListFrom(names)

	runs, err := h.store.ListRuns()
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	var rosterRuns []*store.Run
	for _, run := range runs {
		if run.RosterID == rosterID {
			rosterRuns = append(rosterRuns, run)
		}
	}

	data := struct {
		Roster     *store.RosterRecord
		Projects   []string
		ListHTML   template.HTML
		Serialized string
		Runs       []*store.Run
	}{
		Roster:     rec,
		Projects:   list.Names(),
		ListHTML:   list.RenderList(),
		Serialized: list.Serialized(),
		Runs:       rosterRuns,
	}

	if err := h.templates.ExecuteTemplate(w, "roster_detail.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleAddProject appends a submitted project name and redirects back to
// the roster page. Blank input adds nothing.
func (h *Handler) handleAddProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rosterID := vars["id"]

	if _, err := h.store.GetRoster(rosterID); err != nil {
		http.Error(w, "Roster not found", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	names, err := h.store.ProjectNames(rosterID)
	if err != nil {
		log.Printf("Failed to list projects for roster %s: %v", rosterID, err)
		http.Error(w, "Failed to list projects", http.StatusInternalServerError)
		return
	}

	list := editor.NewListFrom(names)
	if list.Add(r.PostFormValue("project")) {
		added := list.Names()[list.Len()-1]
		if err := h.store.AppendProject(rosterID, added); err != nil {
			log.Printf("Failed to append project to roster %s: %v", rosterID, err)
			http.Error(w, "Failed to append project", http.StatusInternalServerError)
			return
		}
	}

	http.Redirect(w, r, "/roster/"+rosterID, http.StatusSeeOther)
}

// handleRunDetail renders the run detail page
func (h *Handler) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["id"]

	run, err := h.store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	var stats *report.Stats
	if run.Result != nil {
		s := report.Build(run.Result)
		stats = &s
	}

	data := struct {
		Run   *store.Run
		Stats *report.Stats
	}{
		Run:   run,
		Stats: stats,
	}

	if err := h.templates.ExecuteTemplate(w, "run_detail.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Helper functions for templates
func statusColor(status store.RunStatus) string {
	switch status {
	case store.StatusPending:
		return "#6c757d"
	case store.StatusRunning:
		return "#0d6efd"
	case store.StatusCompleted:
		return "#198754"
	case store.StatusFailed:
		return "#dc3545"
	default:
		return "#6c757d"
	}
}

func statusIcon(status store.RunStatus) string {
	switch status {
	case store.StatusPending:
		return "○"
	case store.StatusRunning:
		return "⟳"
	case store.StatusCompleted:
		return "✓"
	case store.StatusFailed:
		return "✗"
	default:
		return "○"
	}
}

func logLevelColor(level string) string {
	switch strings.ToLower(level) {
	case "error":
		return "#dc3545"
	case "success":
		return "#198754"
	case "info":
		return "#0d6efd"
	default:
		return "#6c757d"
	}
}
