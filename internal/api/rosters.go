package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/courseforge/projmatch/internal/roster"
	"github.com/courseforge/projmatch/internal/store"
)

// maxUploadBytes bounds roster and CSV uploads.
const maxUploadBytes = 10 << 20

type rosterSummary struct {
	ID        string    `json:"id"`
	Course    string    `json:"course"`
	Semester  string    `json:"semester"`
	Students  int       `json:"students"`
	Projects  int       `json:"projects"`
	CreatedAt time.Time `json:"createdAt"`
}

func summarize(rec *store.RosterRecord) rosterSummary {
	return rosterSummary{
		ID:        rec.ID,
		Course:    rec.Course,
		Semester:  rec.Semester,
		Students:  len(rec.Roster.Students),
		Projects:  len(rec.Roster.Capacities),
		CreatedAt: rec.CreatedAt,
	}
}

// ListRosters returns every stored roster, newest first
func (h *Handler) ListRosters(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.ListRosters()
	if err != nil {
		log.Printf("Failed to list rosters: %v", err)
		http.Error(w, "Failed to list rosters", http.StatusInternalServerError)
		return
	}
	out := make([]rosterSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summarize(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRoster returns one roster with its full body
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.store.GetRoster(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Roster not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Failed to load roster %s: %v", id, err)
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        rec.ID,
		"course":    rec.Course,
		"semester":  rec.Semester,
		"createdAt": rec.CreatedAt,
		"roster":    rec.Roster,
	})
}

// CreateRoster stores a roster posted as JSON. Options may be omitted; the
// configured defaults are applied then.
func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Course   string `json:"course"`
		Semester string `json:"semester"`
		Roster   struct {
			Students   *[]roster.Student `json:"students"`
			Capacities *map[string]int   `json:"capacities"`
			Options    *roster.Options   `json:"options"`
		} `json:"roster"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		http.Error(w, "Error parsing request", http.StatusBadRequest)
		return
	}
	if req.Course == "" || req.Semester == "" {
		http.Error(w, "course and semester are required", http.StatusBadRequest)
		return
	}
	if req.Roster.Students == nil || req.Roster.Capacities == nil {
		http.Error(w, roster.ErrIncomplete.Error(), http.StatusBadRequest)
		return
	}

	ro := &roster.Roster{
		Students:   *req.Roster.Students,
		Capacities: *req.Roster.Capacities,
		Options:    h.defaultOptions,
	}
	if req.Roster.Options != nil {
		ro.Options = *req.Roster.Options
	}
	if err := ro.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec := &store.RosterRecord{
		ID:       uuid.NewString(),
		Course:   req.Course,
		Semester: req.Semester,
		Roster:   ro,
	}
	if err := h.store.CreateRoster(rec); err != nil {
		log.Printf("Failed to store roster: %v", err)
		http.Error(w, "Failed to store roster", http.StatusInternalServerError)
		return
	}

	log.Printf("Created roster %s (%s %s, %d students)", rec.ID, rec.Course, rec.Semester, len(ro.Students))
	writeJSON(w, http.StatusCreated, summarize(rec))
}

// UploadCSV converts a preferences CSV into rosters, one per course/semester
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Error parsing upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	converted, err := h.converter.Convert(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := make([]rosterSummary, 0, len(converted))
	for _, cr := range converted {
		rec := &store.RosterRecord{
			ID:       uuid.NewString(),
			Course:   cr.Course,
			Semester: cr.Semester,
			Roster:   cr.Roster,
		}
		if err := h.store.CreateRoster(rec); err != nil {
			log.Printf("Failed to store converted roster %s/%s: %v", cr.Course, cr.Semester, err)
			http.Error(w, "Failed to store roster", http.StatusInternalServerError)
			return
		}
		out = append(out, summarize(rec))
	}

	log.Printf("Converted CSV into %d rosters", len(out))
	writeJSON(w, http.StatusCreated, out)
}
