package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	APIPrefix              string `mapstructure:"api_prefix"               validate:"required,startswith=/"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// friends instead of the socket. Rate limiting is keyed on that address.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Storage backends understood by the application wiring.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and addresses the storage backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongo memory"`
	URL    string `mapstructure:"url"    validate:"required_unless=Driver memory"`
	// Name is the database name used by the mongo driver.
	Name string `mapstructure:"name" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// Access and refresh tokens are signed with different secrets so a leaked
// access secret cannot mint refresh tokens.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	JWTRefreshSecret            string `mapstructure:"jwt_refresh_secret"             validate:"required,min=32,nefield=JWTSecret"`
	TokenLifetimeMinutes        int    `mapstructure:"access_token_lifetime_minutes"  validate:"gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gt=0"`
	ClockSkewSeconds            int    `mapstructure:"clock_skew_seconds"             validate:"gte=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// RateLimitConfig throttles the unauthenticated auth endpoints per client.
type RateLimitConfig struct {
	// AuthRequestsPerMinute of zero disables rate limiting.
	AuthRequestsPerMinute int `mapstructure:"auth_requests_per_minute" validate:"gte=0"`
	AuthBurst             int `mapstructure:"auth_burst"               validate:"gte=1"`
}

// TelemetryConfig controls OpenTelemetry tracing. Tracing is off when
// OTLPEndpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"omitempty,url"`
	ServiceName  string `mapstructure:"service_name"  validate:"required"`
}
