package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/courseforge/projmatch/internal/api"
	"github.com/courseforge/projmatch/internal/auth"
	"github.com/courseforge/projmatch/internal/config"
	"github.com/courseforge/projmatch/internal/dispatcher"
	"github.com/courseforge/projmatch/internal/runner"
	"github.com/courseforge/projmatch/internal/store"
	"github.com/courseforge/projmatch/internal/web"
)

var (
	loadDotEnv         = godotenv.Load
	openStore          = store.Open
	newDispatcher      = dispatcher.New
	newWebHandler      = web.NewHandler
	defaultListenServe = http.ListenAndServe
)

func main() {
	if err := run(context.Background(), defaultListenServe); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context, serve func(string, http.Handler) error) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting project match server...")
	log.Printf("Port: %d", cfg.Port)
	log.Printf("Database: %s", cfg.DBPath)
	log.Printf("Solver workers: %d, queue size: %d, max attempts: %d", cfg.SolverWorkers, cfg.SolverQueueSize, cfg.SolverMaxAttempts)

	// Open SQLite store
	st, err := openStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	// Initialize token auth
	authService := auth.New(cfg.AdminSecret)

	// Initialize solver runner and dispatcher (run queue with retries)
	dispatcherConfig := dispatcher.Config{
		Workers:           cfg.SolverWorkers,
		QueueSize:         cfg.SolverQueueSize,
		MaxAttempts:       cfg.SolverMaxAttempts,
		InitialBackoff:    cfg.SolverRetryInitial,
		BackoffMultiplier: cfg.SolverBackoffMultiplier,
		MaxBackoff:        cfg.SolverRetryMax,
	}
	runDispatcher := newDispatcher(runner.New(st), dispatcherConfig)
	defer runDispatcher.Shutdown(ctx)

	// Initialize API handler
	apiHandler := api.NewHandler(st, runDispatcher, authService, cfg.AdminSecret, cfg.SolverOptions)

	// Initialize web UI handler
	webHandler, err := newWebHandler(st)
	if err != nil {
		return fmt.Errorf("failed to initialize web handler: %w", err)
	}

	// Setup router
	r := mux.NewRouter()

	// API endpoints
	apiHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Info endpoint
	r.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"service":"projmatch","status":"running"}`)
	}).Methods("GET")

	// Web UI endpoints (includes the root page)
	webHandler.RegisterRoutes(r)

	// CORS for the API
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server listening on %s", addr)
	log.Printf("API: http://localhost%s/api", addr)
	log.Printf("Health check: http://localhost%s/health", addr)
	log.Printf("Web UI: http://localhost%s/", addr)

	if err := serve(addr, corsHandler); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}
