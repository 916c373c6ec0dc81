package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Session   SessionConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds Gemini API configuration.
// APIKey may be empty: the service starts in degraded mode and every model
// call reports a transport failure instead of crashing at boot.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SessionConfig holds chat-session lifetime configuration
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// UploadConfig holds image upload validation configuration
type UploadConfig struct {
	MaxImageBytes    int64    `mapstructure:"max_image_bytes"`
	AllowedMimeTypes []string `mapstructure:"allowed_mime_types"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shoplens/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	// Session defaults
	v.SetDefault("session.ttl", "1h")

	// Upload defaults
	v.SetDefault("upload.max_image_bytes", 4*1024*1024)
	v.SetDefault("upload.allowed_mime_types", []string{"image/jpeg", "image/png", "image/webp"})

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gemini.Model == "" {
		return fmt.Errorf("gemini model name is required (set SHOPLENS_GEMINI_MODEL)")
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got: %s", config.Session.TTL)
	}

	if config.Upload.MaxImageBytes <= 0 {
		return fmt.Errorf("max image bytes must be positive, got: %d", config.Upload.MaxImageBytes)
	}

	if len(config.Upload.AllowedMimeTypes) == 0 {
		return fmt.Errorf("at least one allowed image MIME type is required")
	}

	return nil
}
