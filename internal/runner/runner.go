// Package runner executes queued solver runs: load the roster, solve, and
// persist the outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/courseforge/projmatch/internal/dispatcher"
	"github.com/courseforge/projmatch/internal/solver"
	"github.com/courseforge/projmatch/internal/store"
)

// Runner solves rosters and records results in the store.
type Runner struct {
	store *store.Store
}

// New creates a runner backed by the store.
func New(st *store.Store) *Runner {
	return &Runner{store: st}
}

// Execute runs one solver job. A missing or invalid roster fails the run
// permanently; only infrastructure errors are surfaced as retryable.
func (r *Runner) Execute(ctx context.Context, job *dispatcher.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.store.UpdateRunStatus(job.RunID, store.StatusRunning); err != nil {
		return fmt.Errorf("mark run running: %w", err)
	}
	r.log(job.RunID, "info", fmt.Sprintf("Loading roster %s", job.RosterID))

	rec, err := r.store.GetRoster(job.RosterID)
	if errors.Is(err, store.ErrNotFound) {
		r.fail(job.RunID, fmt.Sprintf("roster %s not found", job.RosterID))
		return dispatcher.MarkNonRetryable(err)
	}
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	r.log(job.RunID, "info", fmt.Sprintf("Solving: %d students, %d projects", len(rec.Roster.Students), len(rec.Roster.Capacities)))

	res, err := solver.Solve(rec.Roster)
	if err != nil {
		// Solve only fails on invalid input; retrying cannot help.
		r.fail(job.RunID, err.Error())
		return dispatcher.MarkNonRetryable(err)
	}

	if err := r.store.SetRunResult(job.RunID, res); err != nil {
		return fmt.Errorf("store run result: %w", err)
	}
	r.log(job.RunID, "success", fmt.Sprintf("Assigned %d students, %d unassigned", len(res.Assigned), len(res.Unassigned)))
	return nil
}

func (r *Runner) fail(runID, message string) {
	if err := r.store.SetRunError(runID, message); err != nil {
		log.Printf("Failed to record run %s error: %v", runID, err)
	}
	r.log(runID, "error", message)
}

func (r *Runner) log(runID, level, message string) {
	if err := r.store.AddRunLog(runID, level, message); err != nil {
		log.Printf("Failed to add log to run %s: %v", runID, err)
	}
}
