package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TODOFAST_SERVER_PORT.
const EnvPrefix = "TODOFAST"

var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.api_prefix":                   "/api/v1",
	"server.shutdown_timeout_seconds":     10,
	"server.trust_proxy_headers":          false,
	"database.driver":                     DriverPostgres,
	"database.url":                        "",
	"database.name":                       "todofast",
	"auth.jwt_secret":                     "",
	"auth.jwt_refresh_secret":             "",
	"auth.access_token_lifetime_minutes":  60,
	"auth.refresh_token_lifetime_minutes": 60 * 24 * 7,
	"auth.clock_skew_seconds":             0,
	"auth.bcrypt_cost":                    10,
	"rate_limit.auth_requests_per_minute": 20,
	"rate_limit.auth_burst":               10,
	"telemetry.otlp_endpoint":             "",
	"telemetry.service_name":              "todofast-api",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
