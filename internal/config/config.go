package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/courseforge/projmatch/internal/roster"
)

// Config holds all configuration for the projmatch service
type Config struct {
	// Server settings
	Port int

	// Storage
	DBPath string

	// Auth settings
	AdminSecret string

	// CORS
	AllowedOrigins []string

	// Solver option defaults applied to rosters that omit options
	SolverOptions roster.Options

	// Solver queue settings
	SolverWorkers           int
	SolverQueueSize         int
	SolverMaxAttempts       int
	SolverRetryInitial      time.Duration
	SolverRetryMax          time.Duration
	SolverBackoffMultiplier float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getEnvInt("PORT", 8080),
		DBPath:                  getEnv("DB_PATH", "./projmatch.db"),
		AdminSecret:             os.Getenv("ADMIN_SECRET"),
		AllowedOrigins:          splitList(getEnv("ALLOWED_ORIGINS", "*")),
		SolverOptions:           roster.DefaultOptions(),
		SolverWorkers:           getEnvInt("SOLVER_WORKERS", 2),
		SolverQueueSize:         getEnvInt("SOLVER_QUEUE_SIZE", 16),
		SolverMaxAttempts:       getEnvInt("SOLVER_MAX_ATTEMPTS", 3),
		SolverRetryInitial:      time.Duration(getEnvInt("SOLVER_RETRY_SECONDS", 5)) * time.Second,
		SolverRetryMax:          time.Duration(getEnvInt("SOLVER_RETRY_MAX_SECONDS", 120)) * time.Second,
		SolverBackoffMultiplier: getEnvFloat("SOLVER_BACKOFF_MULTIPLIER", 2.0),
	}

	if path := os.Getenv("OPTIONS_FILE"); path != "" {
		opts, err := loadOptionsFile(path)
		if err != nil {
			return nil, err
		}
		cfg.SolverOptions = opts
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadOptionsFile reads solver option defaults from a YAML file. Fields left
// at zero keep the standard defaults.
func loadOptionsFile(path string) (roster.Options, error) {
	opts := roster.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read OPTIONS_FILE: %w", err)
	}

	var file struct {
		TeamSizeTarget     int `yaml:"teamSizeTarget"`
		MinTeamSize        int `yaml:"minTeamSize"`
		MaxSectionsPerTeam int `yaml:"maxSectionsPerTeam"`
		SwapPasses         int `yaml:"swapPasses"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return opts, fmt.Errorf("parse OPTIONS_FILE: %w", err)
	}

	if file.TeamSizeTarget > 0 {
		opts.TeamSizeTarget = file.TeamSizeTarget
	}
	if file.MinTeamSize > 0 {
		opts.MinTeamSize = file.MinTeamSize
	}
	if file.MaxSectionsPerTeam > 0 {
		opts.MaxSectionsPerTeam = file.MaxSectionsPerTeam
	}
	if file.SwapPasses > 0 {
		opts.SwapPasses = file.SwapPasses
	}
	return opts, nil
}

// validate checks that all required configuration is present
func (c *Config) validate() error {
	if c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return c.validateSolverQueueConfig()
}

func (c *Config) validateSolverQueueConfig() error {
	if c.SolverWorkers <= 0 {
		return fmt.Errorf("SOLVER_WORKERS must be greater than 0")
	}
	if c.SolverQueueSize <= 0 {
		return fmt.Errorf("SOLVER_QUEUE_SIZE must be greater than 0")
	}
	if c.SolverMaxAttempts <= 0 {
		return fmt.Errorf("SOLVER_MAX_ATTEMPTS must be greater than 0")
	}
	if c.SolverRetryInitial <= 0 {
		return fmt.Errorf("SOLVER_RETRY_SECONDS must be greater than 0")
	}
	if c.SolverRetryMax < c.SolverRetryInitial {
		return fmt.Errorf("SOLVER_RETRY_MAX_SECONDS must be >= SOLVER_RETRY_SECONDS")
	}
	if c.SolverBackoffMultiplier < 1 {
		return fmt.Errorf("SOLVER_BACKOFF_MULTIPLIER must be >= 1")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
