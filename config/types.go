package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Password      PasswordConfig      `mapstructure:"password"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Environment    string     `mapstructure:"environment"`
	BodyLimitBytes int        `mapstructure:"body_limit_bytes"`
	CORS           CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type PasswordConfig struct {
	// Preset is first_recommended, second_recommended, low_memory or custom.
	Preset     string `mapstructure:"preset"`
	MemoryKiB  uint32 `mapstructure:"memory_kib"`
	Iterations uint32 `mapstructure:"iterations"`
	Lanes      uint8  `mapstructure:"lanes"`

	// Pepper is mixed into every hash and kept out of the stored record.
	// Prefer PASSHASH_PASSWORD_PEPPER over writing it to the config file.
	Pepper string `mapstructure:"pepper"`

	// MaxConcurrent bounds simultaneous derivations; each one holds MemoryKiB of RAM.
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// Upper bounds on the cost of any derivation, whether the parameters come
	// from a hash request or from a hash under verification. 0 = library default.
	MaxMemoryKiB  uint32 `mapstructure:"max_memory_kib"`
	MaxIterations uint32 `mapstructure:"max_iterations"`
	MaxLanes      uint8  `mapstructure:"max_lanes"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	Max               int  `mapstructure:"max"`
	ExpirationSeconds int  `mapstructure:"expiration_seconds"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/passhash.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Logging.Output.File.Enabled && c.Logging.Output.File.Path == "" {
		return fmt.Errorf("logging.output.file.path is required when file output is enabled")
	}
	if c.Logging.Output.Loki.Enabled && c.Logging.Output.Loki.Endpoint == "" {
		return fmt.Errorf("logging.output.loki.endpoint is required when loki output is enabled")
	}

	if c.Password.MaxConcurrent <= 0 {
		return fmt.Errorf("password.max_concurrent must be greater than zero")
	}

	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.ExpirationSeconds <= 0) {
		return fmt.Errorf("rate_limit.max and rate_limit.expiration_seconds must be positive")
	}

	return nil
}
