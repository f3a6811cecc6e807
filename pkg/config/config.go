package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Workspace WorkspaceConfig
	Session   SessionConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string
}

// BackendConfig describes the external projects API this client talks to.
type BackendConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type WorkspaceConfig struct {
	AutoCloseDelay time.Duration
	IdleTTL        time.Duration
	SweepInterval  time.Duration
}

type SessionConfig struct {
	Secret string
}

type LogConfig struct {
	Level  string
	Format string
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
			CORSOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		Backend: BackendConfig{
			BaseURL:   strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:6868"), "/"),
			Timeout:   time.Duration(getEnvAsInt("BACKEND_TIMEOUT", 10)) * time.Second,
			RateLimit: getEnvAsFloat("BACKEND_RATE_LIMIT", 5),
			Burst:     getEnvAsInt("BACKEND_BURST", 10),
		},
		Workspace: WorkspaceConfig{
			AutoCloseDelay: time.Duration(getEnvAsInt("AUTO_CLOSE_DELAY_MS", 1500)) * time.Millisecond,
			IdleTTL:        time.Duration(getEnvAsInt("WORKSPACE_IDLE_TTL", 30)) * time.Minute,
			SweepInterval:  time.Duration(getEnvAsInt("SWEEP_INTERVAL", 60)) * time.Second,
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "default-secret-key"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// Validate checks the values that would make the server unusable
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", c.Backend.BaseURL)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.Backend.RateLimit <= 0 || c.Backend.Burst <= 0 {
		return fmt.Errorf("BACKEND_RATE_LIMIT and BACKEND_BURST must be positive")
	}
	if c.Workspace.AutoCloseDelay <= 0 {
		return fmt.Errorf("AUTO_CLOSE_DELAY_MS must be positive")
	}
	if c.Workspace.IdleTTL <= 0 || c.Workspace.SweepInterval <= 0 {
		return fmt.Errorf("WORKSPACE_IDLE_TTL and SWEEP_INTERVAL must be positive")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
