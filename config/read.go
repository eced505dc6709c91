package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/passhash/pkg/constants"
)

func ReadConfig(configPath string) (*Config, error) {
	v := New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	// Read the config file; every key has a default so the file is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}
	return config
}

// New returns a viper instance with defaults registered and env overrides enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(".")

	// Allow env vars to override config values.
	// e.g. PASSHASH_PASSWORD_PEPPER overrides password.pepper
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// SetDefaults registers a default for every key so env overrides apply even
// when the key is absent from the file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.body_limit_bytes", 16*1024)
	v.SetDefault("server.cors.enabled", false)
	v.SetDefault("server.cors.allow_origins", []string{})

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout_seconds", 5)
	v.SetDefault("redis.read_timeout_seconds", 3)
	v.SetDefault("redis.write_timeout_seconds", 3)

	v.SetDefault("password.preset", "second_recommended")
	v.SetDefault("password.memory_kib", 64*1024)
	v.SetDefault("password.iterations", 3)
	v.SetDefault("password.lanes", 4)
	v.SetDefault("password.pepper", "")
	v.SetDefault("password.max_concurrent", runtime.NumCPU())
	v.SetDefault("password.max_memory_kib", 2*1024*1024)
	v.SetDefault("password.max_iterations", 8)
	v.SetDefault("password.max_lanes", 16)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max", 20)
	v.SetDefault("rate_limit.expiration_seconds", 30)

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", constants.ServiceName)
	v.SetDefault("observability.service_version", constants.Version)
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.otlp_endpoint", "")
	v.SetDefault("observability.tracing.otlp_insecure", false)
	v.SetDefault("observability.tracing.sampling_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", false)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output.stdout", true)
	v.SetDefault("logging.output.file.enabled", false)
	v.SetDefault("logging.output.file.path", "logs/passhash.log")
	v.SetDefault("logging.output.file.max_size_mb", 100)
	v.SetDefault("logging.output.file.max_backups", 5)
	v.SetDefault("logging.output.file.max_age_days", 30)
	v.SetDefault("logging.output.file.compress", true)
	v.SetDefault("logging.output.loki.enabled", false)
	v.SetDefault("logging.output.loki.endpoint", "")
	v.SetDefault("logging.output.loki.username", "")
	v.SetDefault("logging.output.loki.password", "")
}
