// Package config provides configuration for the chat gateway.
package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	HTTPPort   int    `yaml:"http_port"`
	CORSOrigin string `yaml:"cors_origin"`
	Env        string `yaml:"env"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// AI service settings
	AIServiceURL    string `yaml:"ai_service_url"`
	AIServiceAPIKey string `yaml:"ai_service_api_key"`

	// Timeouts
	ChatTimeout   time.Duration `yaml:"-"`
	RunTimeout    time.Duration `yaml:"-"`
	HealthTimeout time.Duration `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Load loads configuration from an optional YAML file pointed to by
// CONFIG_PATH, with environment variables taking precedence over both
// file values and defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:      3002,
		CORSOrigin:    "http://localhost:5173",
		Env:           "development",
		DatabaseURL:   "file:chatgateway.db?cache=shared&mode=rwc",
		AIServiceURL:  "http://localhost:8000",
		ChatTimeout:   30 * time.Second,
		RunTimeout:    60 * time.Second,
		HealthTimeout: 5 * time.Second,
		LogLevel:      "info",
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.HTTPPort = getEnvInt("PORT", cfg.HTTPPort)
	cfg.CORSOrigin = getEnv("CORS_ORIGIN", cfg.CORSOrigin)
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.AIServiceURL = getEnv("AI_SERVICE_URL", cfg.AIServiceURL)
	cfg.AIServiceAPIKey = getEnv("AI_SERVICE_API_KEY", cfg.AIServiceAPIKey)
	cfg.ChatTimeout = getEnvDuration("AI_CHAT_TIMEOUT_MS", cfg.ChatTimeout)
	cfg.RunTimeout = getEnvDuration("AI_RUN_TIMEOUT_MS", cfg.RunTimeout)
	cfg.HealthTimeout = getEnvDuration("AI_HEALTH_TIMEOUT_MS", cfg.HealthTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.AIServiceAPIKey = expandEnvVars(cfg.AIServiceAPIKey)

	return cfg, nil
}

// IsDevelopment reports whether the gateway runs in development mode.
// Development mode includes error details in API responses.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns so the API key can be stored
// in a config file as an environment reference. Unset variables are
// left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return time.Duration(intVal) * time.Millisecond
		}
	}
	return defaultVal
}
