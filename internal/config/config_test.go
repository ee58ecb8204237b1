package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journeyd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/journey
reference_year: 2024
cache_decisions: false
http:
  addr: "127.0.0.1:8000"
grpc:
  port: 0
log:
  level: debug
  pretty: true
  caller: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/journey", cfg.DataDir)
	assert.Equal(t, 2024, cfg.ReferenceYear)
	assert.False(t, cfg.CacheDecisions)
	assert.Equal(t, "127.0.0.1:8000", cfg.HTTP.Addr)
	assert.Equal(t, 0, cfg.Grpc.Port)
	assert.Equal(t, ":9090", cfg.Metrics.Addr, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.True(t, cfg.Log.Caller)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "http: [unclosed"))
	assert.ErrorContains(t, err, "parsing config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("strings and ints override the file", func(t *testing.T) {
		t.Setenv("JOURNEY_DATA_DIR", "/env/data")
		t.Setenv("JOURNEY_GRPC_PORT", "6000")
		t.Setenv("JOURNEY_REFERENCE_YEAR", "2026")
		t.Setenv("JOURNEY_LOG_LEVEL", "warn")

		cfg, err := Load(writeConfig(t, "data_dir: /file/data\n"))
		require.NoError(t, err)

		assert.Equal(t, "/env/data", cfg.DataDir)
		assert.Equal(t, 6000, cfg.Grpc.Port)
		assert.Equal(t, 2026, cfg.ReferenceYear)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("bad number is rejected", func(t *testing.T) {
		t.Setenv("JOURNEY_GRPC_PORT", "many")

		_, err := Load(writeConfig(t, ""))
		assert.ErrorContains(t, err, "JOURNEY_GRPC_PORT")
	})

	t.Run("JOURNEY_CONFIG names the file", func(t *testing.T) {
		t.Setenv("JOURNEY_CONFIG", writeConfig(t, "reference_year: 2023\n"))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 2023, cfg.ReferenceYear)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"year zero", func(c *Config) { c.ReferenceYear = 0 }, "reference_year"},
		{"negative port", func(c *Config) { c.Grpc.Port = -1 }, "grpc.port"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("JOURNEY_TEST_DOTENV=from-file\n"), 0644))
	t.Setenv("JOURNEY_TEST_DOTENV", "")
	os.Unsetenv("JOURNEY_TEST_DOTENV")

	require.NoError(t, LoadDotEnv())
	assert.Equal(t, "from-file", os.Getenv("JOURNEY_TEST_DOTENV"))
}
