package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"todo-api/db"
)

// Environments accepted in APP_ENV.
var Environments = []string{"development", "production", "test"}

// Config holds the process settings read from the environment.
type Config struct {
	DatabaseURL     string
	Port            string
	Env             string
	CORSOrigin      string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads .env (when present) and the process environment.
// Missing keys fall back to their defaults; the result is not validated.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("port", "3001")
	v.SetDefault("app_env", "development")
	v.SetDefault("cors_origin", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", "10s")
	if err := v.BindEnv("database_url"); err != nil {
		return nil, err
	}
	v.AutomaticEnv()

	return &Config{
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		Port:            strings.TrimSpace(v.GetString("port")),
		Env:             v.GetString("app_env"),
		CORSOrigin:      v.GetString("cors_origin"),
		LogLevel:        v.GetString("log_level"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	} else {
		scheme, _, _ := strings.Cut(c.DatabaseURL, "://")
		if !slices.Contains(db.Schemes, scheme) {
			errs = append(errs, fmt.Errorf("DATABASE_URL must start with one of: %s", strings.Join(schemePrefixes(), ", ")))
		}
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, errors.New("PORT must be a valid number between 1 and 65535"))
	}

	if !slices.Contains(Environments, c.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: %s", strings.Join(Environments, ", ")))
	}

	if c.CORSOrigin == "" {
		errs = append(errs, errors.New("CORS_ORIGIN must not be empty"))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be a positive duration"))
	}

	return errors.Join(errs...)
}

func schemePrefixes() []string {
	prefixes := make([]string, len(db.Schemes))
	for i, s := range db.Schemes {
		prefixes[i] = s + "://"
	}
	return prefixes
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func (c *Config) Development() bool {
	return c.Env == "development"
}
