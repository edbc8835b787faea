package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the library variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvLogFormat, EnvSeedFile, EnvDailyFine, EnvJournal} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Empty(t, cfg.SeedFile)
	assert.Equal(t, "0.10", cfg.DailyFine.StringFixed(2))
	assert.True(t, cfg.Journal)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvSeedFile, "catalog.yaml")
	t.Setenv(EnvDailyFine, "0.25")
	t.Setenv(EnvJournal, "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "catalog.yaml", cfg.SeedFile)
	assert.True(t, cfg.DailyFine.Equal(decimal.RequireFromString("0.25")))
	assert.False(t, cfg.Journal)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LIBRARY_LOG_LEVEL=warn\nLIBRARY_DAILY_FINE=1.00\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "1.00", cfg.DailyFine.StringFixed(2))
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	testCases := []struct {
		key, value string
	}{
		{EnvDailyFine, "ten cents"},
		{EnvJournal, "sometimes"},
	}
	for _, tt := range testCases {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	testCases := []struct {
		key, value string
	}{
		{EnvLogLevel, "verbose"},
		{EnvLogFormat, "xml"},
		{EnvDailyFine, "-0.10"},
		{EnvDailyFine, "0"},
	}
	for _, tt := range testCases {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestOverrideBeforeValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "verbose")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	cfg.LogLevel = "debug"
	assert.NoError(t, cfg.Validate())
}

func TestValidateListsEveryProblem(t *testing.T) {
	cfg := &Config{LogLevel: "loud", LogFormat: "yaml", DailyFine: decimal.Zero}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. LogLevel")
	assert.Contains(t, err.Error(), "2. LogFormat")
	assert.Contains(t, err.Error(), "3. DailyFine")
}
