package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

const defaultMongoDatabase = "todoListDB"

// Config holds the configuration for the to-do service.
// Variables are read with the TODO_ prefix and fall back to the bare name,
// so both TODO_PORT and PORT set the listen port.
type Config struct {
	DBDriver string `envconfig:"DB_DRIVER" default:"mongo"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP Configuration
	HTTPPort int `envconfig:"PORT" default:"3000"`

	// Document database
	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://127.0.0.1:27017/todoListDB"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:""`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/todo.db"`

	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates the driver and derives the Mongo database name
// from the connection string when it is not set explicitly.
func (c *Config) ResolveDefaults() error {
	allowedDB := map[string]bool{"mongo": true, "postgres": true, "sqlite": true, "memory": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.HTTPPort)
	}

	if c.DBDriver == "mongo" && c.MongoDatabase == "" {
		cs, err := connstring.ParseAndValidate(c.MongoURI)
		if err != nil {
			return fmt.Errorf("invalid MONGODB_URI: %w", err)
		}
		c.MongoDatabase = cs.Database
		if c.MongoDatabase == "" {
			c.MongoDatabase = defaultMongoDatabase
		}
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Example: TODO_DB_DRIVER=sqlite, PORT=8080
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TODO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewForTesting creates an in-memory config specifically for testing
func NewForTesting() *Config {
	return &Config{
		DBDriver:                  "memory",
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  3000,
		MongoURI:                  "mongodb://127.0.0.1:27017/todoListDB",
		MongoDatabase:             defaultMongoDatabase,
		SQLitePath:                "data/todo.db",
		BootstrapTimeoutSeconds:   5,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
