package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileEnv names the environment variable holding an optional TOML config
// file. Values from the file override defaults; environment variables
// override the file.
const FileEnv = "PROFILEGW_CONFIG"

// Config holds all configuration for the profile gateway.
type Config struct {
	Port      int             `toml:"port"`
	Version   string          `toml:"version"`
	Profiles  ProfilesConfig  `toml:"profiles"`
	Directory DirectoryConfig `toml:"directory"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ProfilesConfig struct {
	// ServiceURL is this grid's own profile service. Empty disables the
	// profile features entirely.
	ServiceURL string `toml:"serviceURL"`

	// PrefetchAssets warms visitors' profile images on arrival.
	PrefetchAssets bool `toml:"prefetchAssets"`
}

// Enabled reports whether profile features are configured.
func (p ProfilesConfig) Enabled() bool { return p.ServiceURL != "" }

type DirectoryConfig struct {
	Driver string `toml:"driver"` // memory | sqlite
	Path   string `toml:"path"`
}

type TelemetryConfig struct {
	Enabled      bool   `toml:"enabled"`
	OTLPEndpoint string `toml:"otlpEndpoint"`
	ServiceName  string `toml:"serviceName"`

	// SampleRatio applies to root spans only; remote parents decide for
	// their children.
	SampleRatio float64 `toml:"sampleRatio"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

func defaults() *Config {
	return &Config{
		Port:    8080,
		Version: "0.1.0",
		Profiles: ProfilesConfig{
			PrefetchAssets: true,
		},
		Directory: DirectoryConfig{
			Driver: "memory",
			Path:   "data/directory.db",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "profilegw",
			SampleRatio:  1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the configuration from defaults, the optional file named by
// PROFILEGW_CONFIG, and environment variables, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(FileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Port = envInt("PROFILEGW_PORT", cfg.Port)
	cfg.Version = envStr("PROFILEGW_VERSION", cfg.Version)
	cfg.Profiles.ServiceURL = envStr("PROFILE_SERVICE_URL", cfg.Profiles.ServiceURL)
	cfg.Profiles.PrefetchAssets = envBool("PROFILE_PREFETCH_ASSETS", cfg.Profiles.PrefetchAssets)
	cfg.Directory.Driver = envStr("DIRECTORY_DRIVER", cfg.Directory.Driver)
	cfg.Directory.Path = envStr("DIRECTORY_PATH", cfg.Directory.Path)
	cfg.Telemetry.Enabled = envBool("OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.OTLPEndpoint = envStr("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
	cfg.Telemetry.ServiceName = envStr("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
	cfg.Telemetry.SampleRatio = envFloat("OTEL_TRACES_SAMPLER_ARG", cfg.Telemetry.SampleRatio)
	cfg.Logging.Level = envStr("PROFILEGW_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Pretty = envBool("PROFILEGW_LOG_PRETTY", cfg.Logging.Pretty)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}
	switch cfg.Directory.Driver {
	case "memory":
	case "sqlite":
		if cfg.Directory.Path == "" {
			return fmt.Errorf("directory.path required for sqlite")
		}
	default:
		return fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
