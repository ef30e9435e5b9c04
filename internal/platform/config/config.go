// Package config loads the service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults shared with tests and the YAML profiles.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultDatabaseMaxOpenConns bounds concurrent quote transactions per instance.
	DefaultDatabaseMaxOpenConns = 16
	DefaultDatabaseMaxIdleConns = 4

	// EnvPrefix marks environment overrides, e.g. APP_DATABASE_TX_TIMEOUT.
	EnvPrefix = "APP_"

	// DefaultDir holds base.yaml and the per-environment profiles.
	DefaultDir = "configs"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Redis     RedisConfig     `koanf:"redis"`
	CRM       CRMConfig       `koanf:"crm"`
	Quote     QuoteConfig     `koanf:"quote"     validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig names the headers carrying the agent identity. The gateway in
// front of the service validates tokens and forwards these.
type AuthConfig struct {
	SubjectHeader string `koanf:"subject_header" validate:"required"`
	RolesHeader   string `koanf:"roles_header"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"         validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"      validate:"required,min=1s"`
}

// DatabaseConfig contains the quote store connection settings.
type DatabaseConfig struct {
	Dialect            string        `koanf:"dialect"              validate:"required,oneof=postgres sqlite"`
	DSN                string        `koanf:"dsn"                  validate:"required"`
	MaxOpenConns       int           `koanf:"max_open_conns"       validate:"min=0"`
	MaxIdleConns       int           `koanf:"max_idle_conns"       validate:"min=0"`
	ConnMaxLifetime    time.Duration `koanf:"conn_max_lifetime"`
	TxTimeout          time.Duration `koanf:"tx_timeout"           validate:"required,min=10ms"`
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
	AutoMigrate        bool          `koanf:"auto_migrate"`
}

// RedisConfig contains settings for the quote event publisher.
type RedisConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Addr           string        `koanf:"addr"            validate:"required_if=Enabled true,omitempty,hostname_port"`
	Password       string        `koanf:"password"`
	DB             int           `koanf:"db"              validate:"min=0,max=15"`
	Channel        string        `koanf:"channel"         validate:"required_if=Enabled true"`
	DialTimeout    time.Duration `koanf:"dial_timeout"`
	PublishTimeout time.Duration `koanf:"publish_timeout" validate:"required,min=10ms"`
}

// CRMConfig points the client directory at a remote CRM.
// When disabled, clients are read from the local clients table.
type CRMConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	Name    string `koanf:"name"     validate:"required_if=Enabled true"`
}

// QuoteConfig contains quote business settings.
type QuoteConfig struct {
	// PricingTolerance is the largest accepted difference between supplied and recomputed money fields.
	PricingTolerance string `koanf:"pricing_tolerance" validate:"required,numeric"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quoteguard",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/app.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quoteguard",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.subject_header": "X-Agent-ID",
		"auth.roles_header":   "X-Agent-Roles",

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"database.dialect":              "sqlite",
		"database.dsn":                  "file:quotes.db?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate",
		"database.max_open_conns":       DefaultDatabaseMaxOpenConns,
		"database.max_idle_conns":       DefaultDatabaseMaxIdleConns,
		"database.conn_max_lifetime":    "30m",
		"database.tx_timeout":           "5s",
		"database.slow_query_threshold": "200ms",
		"database.auto_migrate":         true,

		"redis.enabled":         false,
		"redis.addr":            "localhost:6379",
		"redis.password":        "",
		"redis.db":              0,
		"redis.channel":         "quote-events",
		"redis.dial_timeout":    "5s",
		"redis.publish_timeout": "2s",

		"crm.enabled":  false,
		"crm.base_url": "",
		"crm.name":     "crm",

		"quote.pricing_tolerance": "0",
	}
}

// Load reads the configuration for profile from DefaultDir. See LoadFrom.
func Load(profile string) (*Config, error) {
	return LoadFrom(DefaultDir, profile)
}

// LoadFrom layers, lowest first: built-in defaults, dir/base.yaml,
// dir/<profile>.yaml and APP_ environment variables. Missing files are skipped.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")
	base := defaults()

	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{filepath.Join(dir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(dir, profile+".yaml"))
	}

	for _, path := range files {
		if err := loadOptionalYAML(k, path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(base)), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper resolves APP_ variables against the known keys, so that
// APP_DATABASE_TX_TIMEOUT maps to database.tx_timeout rather than
// database.tx.timeout. Unknown variables fall back to one level per underscore.
func envKeyMapper(known map[string]any) func(string) string {
	byFlat := make(map[string]string, len(known))
	for key := range known {
		byFlat[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		flat := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if key, ok := byFlat[flat]; ok {
			return key
		}

		return strings.ReplaceAll(flat, "_", ".")
	}
}

func loadOptionalYAML(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
