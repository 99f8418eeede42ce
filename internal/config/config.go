// Package config loads service configuration from YAML files with
// environment-variable overrides for secrets.
//
// The file is selected once at startup by APP_ENVIRONMENT
// (configuration.local.yaml, configuration.production.yaml, ...) and the
// resolved Config value is injected into components. Nothing in this package
// keeps global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is the public origin used to build confirmation links,
	// e.g. "https://newsletter.ignite.com".
	BaseURL string `yaml:"base_url"`
}

// GetHost returns the configured host, defaulting to localhost.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "127.0.0.1"
	}
	return s.Host
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// ConnectionString assembles a postgres DSN from the configured parts.
func (d DatabaseConfig) ConnectionString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.Name, sslMode)
}

// EmailConfig holds transactional email provider settings.
type EmailConfig struct {
	BaseURL            string `yaml:"base_url"`
	SenderEmail        string `yaml:"sender_email"`
	AuthorizationToken string `yaml:"authorization_token"`
	TimeoutMS          int    `yaml:"timeout_ms"`
}

// Timeout returns the outbound request timeout, defaulting to 10s.
func (e EmailConfig) Timeout() time.Duration {
	if e.TimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

// LoggingConfig holds structured-logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// ShouldRedactPII defaults to true when unset.
func (l LoggingConfig) ShouldRedactPII() bool {
	if l.RedactPII == nil {
		return true
	}
	return *l.RedactPII
}

// Load reads and parses a single YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	}

	return &cfg, nil
}

// LoadFromEnv resolves the environment-specific configuration file inside dir
// and applies environment-variable overrides for secrets. The environment is
// chosen by APP_ENVIRONMENT (default "local") exactly once; callers receive a
// fully resolved Config.
func LoadFromEnv(dir string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "local"
	}

	cfg, err := Load(filepath.Join(dir, fmt.Sprintf("configuration.%s.yaml", env)))
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if host := os.Getenv("DATABASE_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if token := os.Getenv("EMAIL_AUTHORIZATION_TOKEN"); token != "" {
		cfg.Email.AuthorizationToken = token
	}
	if baseURL := os.Getenv("EMAIL_BASE_URL"); baseURL != "" {
		cfg.Email.BaseURL = baseURL
	}
	if baseURL := os.Getenv("APP_BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}

	return cfg, nil
}
