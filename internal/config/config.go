package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Telemetry exporters accepted by Config.Exporter.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	ServerPort string `mapstructure:"server_port"`

	// OpenTelemetry settings
	OTLPEndpoint string `mapstructure:"otel_exporter_otlp_endpoint"`
	ServiceName  string `mapstructure:"otel_service_name"`
	Environment  string `mapstructure:"environment"`
	Exporter     string `mapstructure:"otel_exporter"`

	Storage StorageConfig `mapstructure:",squash"`
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"storage_driver"`
	// Path is a directory for the file driver and a database file for sqlite.
	Path string `mapstructure:"storage_path"`
	// Key identifies the saved collection within the backend.
	Key       string `mapstructure:"storage_key"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
	// SeedSampleData populates sample tasks when nothing is saved yet.
	SeedSampleData bool `mapstructure:"seed_sample_data"`
}

var defaults = map[string]any{
	"server_port":                 "8080",
	"otel_exporter_otlp_endpoint": "localhost:4317",
	"otel_service_name":           "taskcore",
	"environment":                 "development",
	"otel_exporter":               ExporterOTLP,
	"storage_driver":              DriverFile,
	"storage_path":                "./data",
	"storage_key":                 "savedTasks",
	"redis_addr":                  "localhost:6379",
	"redis_db":                    0,
	"seed_sample_data":            true,
}

// Load returns configuration from environment variables with sensible
// defaults. If TASKCORE_CONFIG names a YAML file, its values sit between the
// defaults and the environment.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("taskcore_config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown driver and exporter names.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Exporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("unknown telemetry exporter %q", c.Exporter)
	}
	return nil
}
