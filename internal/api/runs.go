package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/courseforge/projmatch/internal/dispatcher"
	"github.com/courseforge/projmatch/internal/report"
	"github.com/courseforge/projmatch/internal/store"
)

type runSummary struct {
	ID        string          `json:"id"`
	RosterID  string          `json:"rosterId"`
	Status    store.RunStatus `json:"status"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type runLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// CreateRun enqueues a solver run for a roster and answers 202
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	rosterID := mux.Vars(r)["id"]

	if _, err := h.store.GetRoster(rosterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Roster not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to load roster %s: %v", rosterID, err)
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return
	}

	run := &store.Run{ID: uuid.NewString(), RosterID: rosterID}
	if err := h.store.CreateRun(run); err != nil {
		log.Printf("Failed to create run: %v", err)
		http.Error(w, "Failed to create run", http.StatusInternalServerError)
		return
	}

	if err := h.dispatcher.Enqueue(&dispatcher.Job{RunID: run.ID, RosterID: rosterID}); err != nil {
		log.Printf("Failed to enqueue run %s: %v", run.ID, err)
		if failErr := h.store.SetRunError(run.ID, err.Error()); failErr != nil {
			log.Printf("Failed to mark run %s failed: %v", run.ID, failErr)
		}
		if errors.Is(err, dispatcher.ErrQueueFull) {
			http.Error(w, "Run queue is full", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Failed to enqueue", http.StatusInternalServerError)
		return
	}

	log.Printf("Queued run %s for roster %s", run.ID, rosterID)
	writeJSON(w, http.StatusAccepted, map[string]string{"runId": run.ID})
}

// ListRuns returns every run, newest first
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns()
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, runSummary{
			ID:        run.ID,
			RosterID:  run.RosterID,
			Status:    run.Status,
			Error:     run.Error,
			CreatedAt: run.CreatedAt,
			UpdatedAt: run.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRun returns one run with its result and logs
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}

	logs := make([]runLogEntry, 0, len(run.Logs))
	for _, entry := range run.Logs {
		logs = append(logs, runLogEntry{Timestamp: entry.Timestamp, Level: entry.Level, Message: entry.Message})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        run.ID,
		"rosterId":  run.RosterID,
		"status":    run.Status,
		"error":     run.Error,
		"createdAt": run.CreatedAt,
		"updatedAt": run.UpdatedAt,
		"result":    run.Result,
		"logs":      logs,
	})
}

// GetRunReport returns assignment statistics for a completed run. With
// ?format=text the familiar check output is returned instead of JSON.
func (h *Handler) GetRunReport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r)
	if !ok {
		return
	}
	if run.Result == nil {
		http.Error(w, "Run has no result yet", http.StatusConflict)
		return
	}

	stats := report.Build(run.Result)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(stats.String()))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) loadRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	id := mux.Vars(r)["id"]
	run, err := h.store.GetRun(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		log.Printf("Failed to load run %s: %v", id, err)
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return nil, false
	}
	return run, true
}
