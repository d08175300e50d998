package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jma-terminal.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAreaURL, EnvForecastURL, EnvDBPath, EnvLogFile, EnvTimeoutSeconds} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `[jma]
area_url = "http://localhost:8080/area.json"
forecast_base_url = "http://localhost:8080/forecast"
timeout_seconds = 5

[cache]
db_path = "/tmp/jma/weather.db"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/area.json", cfg.JMA.AreaURL)
	assert.Equal(t, "http://localhost:8080/forecast", cfg.JMA.ForecastBaseURL)
	assert.Equal(t, 5*time.Second, cfg.JMA.Timeout())
	assert.Equal(t, "/tmp/jma/weather.db", cfg.Cache.DBPath)
	assert.Equal(t, jma.DefaultUserAgent, cfg.JMA.UserAgent)
	assert.Equal(t, "jma-terminal.log", cfg.Logging.File)
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))

	var notFound *ConfigNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, notFound.Error(), "missing.toml")
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[jma\narea_url = "))
	assert.ErrorContains(t, err, "failed to parse TOML configuration")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, jma.DefaultAreaURL, cfg.JMA.AreaURL)
	assert.Equal(t, jma.DefaultForecastBaseURL, cfg.JMA.ForecastBaseURL)
	assert.Equal(t, 30, cfg.JMA.TimeoutSeconds)
	assert.Equal(t, filepath.Join("data", "weather.db"), cfg.Cache.DBPath)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `[cache]
db_path = "from-file.db"
`)
	t.Setenv(EnvDBPath, "from-env.db")
	t.Setenv(EnvForecastURL, "https://example.test/forecast")
	t.Setenv(EnvTimeoutSeconds, "12")
	t.Setenv(EnvLogFile, "custom.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Cache.DBPath)
	assert.Equal(t, "https://example.test/forecast", cfg.JMA.ForecastBaseURL)
	assert.Equal(t, 12, cfg.JMA.TimeoutSeconds)
	assert.Equal(t, "custom.log", cfg.Logging.File)
}

func TestLoad_InvalidTimeoutFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeoutSeconds, "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, EnvTimeoutSeconds, verr.Field)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "JMA_TERMINAL_DOTENV_TEST"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		fields []string
	}{
		{"defaults are valid", func(c *Config) {}, nil},
		{"non http area url", func(c *Config) { c.JMA.AreaURL = "ftp://example.test/area.json" }, []string{"jma.area_url"}},
		{"negative timeout", func(c *Config) { c.JMA.TimeoutSeconds = -1 }, []string{"jma.timeout_seconds"}},
		{
			"several problems",
			func(c *Config) {
				c.JMA.ForecastBaseURL = "forecast"
				c.Cache.DBPath = " "
			},
			[]string{"jma.forecast_base_url", "cache.db_path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var got []string
			var multi *MultiValidationError
			var single ValidationError
			switch {
			case errors.As(err, &multi):
				for _, e := range multi.Errors {
					got = append(got, e.Field)
				}
			case errors.As(err, &single):
				got = []string{single.Field}
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}
