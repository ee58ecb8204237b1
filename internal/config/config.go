// Package config handles reading journeyd.yaml and JOURNEY_* overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for journeyd.yaml.
type Config struct {
	DataDir        string     `yaml:"data_dir"`
	ReferenceYear  int        `yaml:"reference_year"` // year episode dates are read in
	CacheDecisions bool       `yaml:"cache_decisions"`
	HTTP           HTTPConfig `yaml:"http"`
	Grpc           GrpcConfig `yaml:"grpc"`
	Metrics        HTTPConfig `yaml:"metrics"`
	Log            LogConfig  `yaml:"log"`
}

// HTTPConfig holds a listen address. An empty address disables the listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// GrpcConfig controls the gRPC listener. Port 0 disables it.
type GrpcConfig struct {
	Port int `yaml:"port"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"` // debug | info | warn | error
	Pretty bool   `yaml:"pretty"`
	Caller bool   `yaml:"caller"` // add file:line to every entry
}

// DefaultPath is used when no --config flag or JOURNEY_CONFIG is given.
const DefaultPath = "journeyd.yaml"

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "./data",
		ReferenceYear:  2025,
		CacheDecisions: true,
		HTTP:           HTTPConfig{Addr: ":8080"},
		Grpc:           GrpcConfig{Port: 50051},
		Metrics:        HTTPConfig{Addr: ":9090"},
		Log:            LogConfig{Level: "info"},
	}
}

// LoadDotEnv loads .env.local and .env from the working directory. Variables
// already set in the environment win.
func LoadDotEnv() error {
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides and validates. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("JOURNEY_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("JOURNEY_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("JOURNEY_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("JOURNEY_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("JOURNEY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("JOURNEY_GRPC_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOURNEY_GRPC_PORT: %w", err)
		}
		c.Grpc.Port = port
	}
	if v := os.Getenv("JOURNEY_REFERENCE_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOURNEY_REFERENCE_YEAR: %w", err)
		}
		c.ReferenceYear = year
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ReferenceYear < 1 || c.ReferenceYear > 9999 {
		return fmt.Errorf("reference_year out of range: %d", c.ReferenceYear)
	}
	if c.Grpc.Port < 0 || c.Grpc.Port > 65535 {
		return fmt.Errorf("grpc.port out of range: %d", c.Grpc.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}
