package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/wrapgen/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR,notEmpty"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Generation service configuration
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Generated archive cache
	ArchiveCacheCfg ArchiveCacheConfig `envPrefix:"ARCHIVE_CACHE_"`

	// CORS configuration for the browser page
	CORSCfg CORSConfig `envPrefix:"CORS_"`

	// User input limits
	InputCfg InputConfig `envPrefix:"INPUT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	// GenerateEndpoint is formatted with the model name
	GenerateEndpoint string               `env:"GENERATE_ENDPOINT" envDefault:"/v1beta/models/%s:generateContent"`
	ProjectModel     string               `env:"PROJECT_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel       string               `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	APIKeyEnv        string               `env:"API_KEY_ENV" envDefault:"GEMINI_API_KEY"`
	APIKeyHeader     string               `env:"API_KEY_HEADER" envDefault:"x-goog-api-key"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"110s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://generativelanguage.googleapis.com"`
}

type ArchiveCacheConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

type InputConfig struct {
	MaxURLLength int `env:"MAX_URL_LENGTH" envDefault:"2048"`
}

type CORSConfig struct {
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxAge         time.Duration `env:"MAX_AGE" envDefault:"12h"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Missing env files are fine when variables are set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if !strings.Contains(cfg.LLMConnectorCfg.GenerateEndpoint, "%s") {
		errors = append(errors, fmt.Sprintf("LLM_GENERATE_ENDPOINT must contain a %%s model placeholder, got %q", cfg.LLMConnectorCfg.GenerateEndpoint))
	}

	if cfg.LLMConnectorCfg.ProjectModel == "" || cfg.LLMConnectorCfg.ImageModel == "" {
		errors = append(errors, "LLM_PROJECT_MODEL and LLM_IMAGE_MODEL must not be empty")
	}

	if cfg.LLMConnectorCfg.APIKeyEnv == "" {
		errors = append(errors, "LLM_API_KEY_ENV must name the variable holding the credential")
	}

	if cfg.LLMConnectorCfg.Retry.Attempts < 1 || cfg.LLMConnectorCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("LLM_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.LLMConnectorCfg.Retry.Attempts))
	}

	if cfg.ArchiveCacheCfg.TTL <= 0 {
		errors = append(errors, fmt.Sprintf("ARCHIVE_CACHE_TTL must be positive, got %s", cfg.ArchiveCacheCfg.TTL))
	}

	if cfg.InputCfg.MaxURLLength <= 0 {
		errors = append(errors, fmt.Sprintf("INPUT_MAX_URL_LENGTH must be positive, got %d", cfg.InputCfg.MaxURLLength))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
