package server

import (
	"fmt"
	"time"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/cache"
)

// Config represents the HTTP server configuration.
type Config struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`

	// Timeouts
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// CORS settings
	CORSEnabled        bool     `yaml:"cors_enabled" env:"CORS_ENABLED"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	CORSAllowedMethods []string `yaml:"cors_allowed_methods" env:"CORS_ALLOWED_METHODS"`
	CORSAllowedHeaders []string `yaml:"cors_allowed_headers" env:"CORS_ALLOWED_HEADERS"`

	// Rate limiting
	RateLimitEnabled bool `yaml:"rate_limit_enabled" env:"RATE_LIMIT_ENABLED"`
	RateLimitRPS     int  `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst   int  `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`

	// Authentication
	AuthEnabled     bool          `yaml:"auth_enabled" env:"AUTH_ENABLED"`
	JWTIssuer       string        `yaml:"jwt_issuer" env:"JWT_ISSUER"`
	JWTPrivateKey   string        `yaml:"jwt_private_key" env:"JWT_PRIVATE_KEY"`
	JWTPublicKey    string        `yaml:"jwt_public_key" env:"JWT_PUBLIC_KEY"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL"`

	// Request logging
	LogRequests bool `yaml:"log_requests" env:"LOG_REQUESTS"`

	// Health check and metrics
	HealthCheckPath string `yaml:"health_check_path" env:"HEALTH_CHECK_PATH"`
	ReadyCheckPath  string `yaml:"ready_check_path" env:"READY_CHECK_PATH"`
	MetricsEnabled  bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
	MetricsPath     string `yaml:"metrics_path" env:"METRICS_PATH"`

	// API settings
	APIPrefix       string `yaml:"api_prefix" env:"API_PREFIX"`
	MaxRequestSize  int64  `yaml:"max_request_size" env:"MAX_REQUEST_SIZE"`
	RequestIDHeader string `yaml:"request_id_header" env:"REQUEST_ID_HEADER"`

	// Pagination defaults
	DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `yaml:"max_page_size" env:"MAX_PAGE_SIZE"`

	// Risk evaluation
	AlertThreshold float64       `yaml:"alert_threshold" env:"ALERT_THRESHOLD"`
	AlertCooldown  time.Duration `yaml:"alert_cooldown" env:"ALERT_COOLDOWN"`

	// Database configuration
	Database *database.Config `yaml:"database"`

	// Baseline cache configuration
	Cache *cache.Config `yaml:"cache"`
}

// GetDefaultConfig returns a default server configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        120 * time.Second,
		ShutdownTimeout:    30 * time.Second,
		CORSEnabled:        true,
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"*"},
		RateLimitEnabled:   true,
		RateLimitRPS:       100,
		RateLimitBurst:     200,
		AuthEnabled:        true,
		JWTIssuer:          "exampulse",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		LogRequests:        true,
		HealthCheckPath:    "/health",
		ReadyCheckPath:     "/ready",
		MetricsEnabled:     true,
		MetricsPath:        "/metrics",
		APIPrefix:          "/api/v1",
		MaxRequestSize:     1 * 1024 * 1024,
		RequestIDHeader:    "X-Request-ID",
		DefaultPageSize:    20,
		MaxPageSize:        100,
		AlertThreshold:     0.5,
		AlertCooldown:      2 * time.Minute,
		Database:           database.GetDefaultConfig(),
		Cache:              cache.GetDefaultConfig(),
	}
}

// GetAddress returns the listen address.
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the server configuration.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.RateLimitEnabled {
		if c.RateLimitRPS <= 0 {
			return fmt.Errorf("rate limit RPS must be positive")
		}
		if c.RateLimitBurst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default page size must be positive")
	}
	if c.MaxPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max page size must be positive and >= default page size")
	}

	if c.AlertThreshold < 0.0 || c.AlertThreshold > 1.0 {
		return fmt.Errorf("alert threshold must be within [0.0, 1.0]")
	}

	return nil
}
