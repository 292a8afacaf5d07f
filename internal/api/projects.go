package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/courseforge/projmatch/internal/editor"
)

type projectListResponse struct {
	Projects   []string `json:"projects"`
	Serialized string   `json:"serialized"`
	ListHTML   string   `json:"listHtml"`
}

// ListProjects returns a roster's editable project list with its two
// derived views
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	names, err := h.store.ProjectNames(id)
	if err != nil {
		log.Printf("Failed to list projects for roster %s: %v", id, err)
		http.Error(w, "Failed to list projects", http.StatusInternalServerError)
		return
	}

	list := editor.NewListFrom(names)
	writeJSON(w, http.StatusOK, projectListResponse{
		Projects:   list.Names(),
		Serialized: list.Serialized(),
		ListHTML:   string(list.RenderList()),
	})
}

// AddProject appends one name to a roster's project list. Whitespace-only
// input is a no-op and answers 204 with no side effects.
func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Error parsing request", http.StatusBadRequest)
		return
	}

	names, err := h.store.ProjectNames(id)
	if err != nil {
		log.Printf("Failed to list projects for roster %s: %v", id, err)
		http.Error(w, "Failed to list projects", http.StatusInternalServerError)
		return
	}

	list := editor.NewListFrom(names)
	if !list.Add(req.Name) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	added := list.Names()[list.Len()-1]
	if err := h.store.AppendProject(id, added); err != nil {
		log.Printf("Failed to append project to roster %s: %v", id, err)
		http.Error(w, "Failed to append project", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"name":       added,
		"item":       string(editor.RenderItem(added)),
		"serialized": list.Serialized(),
	})
}
