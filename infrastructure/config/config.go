package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"postviewer/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production"`

	// Remote service
	APIBaseURL        string        `yaml:"api_base_url" validate:"required,url"`
	HTTPClientTimeout time.Duration `yaml:"http_client_timeout" validate:"gte=0"`

	// Circuit breaker around the remote service
	EnableBreaker      bool `yaml:"enable_breaker"`
	BreakerMaxFailures int  `yaml:"breaker_max_failures" validate:"min=1"`
	BreakerOpenSeconds int  `yaml:"breaker_open_seconds" validate:"min=1"`

	// Sessions
	SessionTTLMinutes int    `yaml:"session_ttl_minutes" validate:"min=1"`
	SessionCookie     string `yaml:"session_cookie" validate:"required"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Observability
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// ConfigFile is the YAML file overlaid on the defaults, if any.
	ConfigFile string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerAddress:      ":8080",
		Environment:        "development",
		APIBaseURL:         "https://jsonplaceholder.typicode.com",
		EnableBreaker:      true,
		BreakerMaxFailures: 5,
		BreakerOpenSeconds: 30,
		SessionTTLMinutes:  30,
		SessionCookie:      "postviewer_session",
		LogLevel:           "info",
		OTLPEndpoint:       "localhost:4317",
		AllowedOrigins:     []string{"*"},
		EnableMetrics:      true,
		EnableTracing:      false,
		EnableCORS:         true,
	}
}

// LoadConfig loads configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	applyEnv(cfg)

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func applyEnv(cfg *Config) {
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)

	cfg.APIBaseURL = strings.TrimRight(getEnv("API_BASE_URL", cfg.APIBaseURL), "/")
	cfg.HTTPClientTimeout = getEnvDuration("HTTP_CLIENT_TIMEOUT", cfg.HTTPClientTimeout)

	cfg.EnableBreaker = getEnvBool("ENABLE_BREAKER", cfg.EnableBreaker)
	cfg.BreakerMaxFailures = getEnvInt("BREAKER_MAX_FAILURES", cfg.BreakerMaxFailures)
	cfg.BreakerOpenSeconds = getEnvInt("BREAKER_OPEN_SECONDS", cfg.BreakerOpenSeconds)

	cfg.SessionTTLMinutes = getEnvInt("SESSION_TTL_MINUTES", cfg.SessionTTLMinutes)
	cfg.SessionCookie = getEnv("SESSION_COOKIE", cfg.SessionCookie)

	// Logging and features
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
}

// Validate checks field constraints and cross-field rules
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.EnableTracing && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP_ENDPOINT is required when tracing is enabled")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// BreakerOpenDuration is how long the breaker stays open before probing.
func (c *Config) BreakerOpenDuration() time.Duration {
	return time.Duration(c.BreakerOpenSeconds) * time.Second
}

// SessionTTL is the idle lifetime of a session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts a Go duration ("750ms") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
