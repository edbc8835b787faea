package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"library-lending/internal/logger"
)

const (
	EnvLogLevel  = "LIBRARY_LOG_LEVEL"
	EnvLogFormat = "LIBRARY_LOG_FORMAT"
	EnvSeedFile  = "LIBRARY_SEED_FILE"
	EnvDailyFine = "LIBRARY_DAILY_FINE"
	EnvJournal   = "LIBRARY_JOURNAL"

	DefaultLogLevel  = logger.INFO
	DefaultLogFormat = logger.TEXT
	DefaultDailyFine = "0.10"
	DefaultJournal   = true

	ServiceName = "library"
)

type Config struct {
	LogLevel  string
	LogFormat string
	SeedFile  string
	DailyFine decimal.Decimal
	Journal   bool
}

// Load reads an optional env file and then the process environment.
// A missing env file is not an error. Values that do not parse are errors;
// range checks are left to Validate so callers can apply overrides first.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "load %s", f)
		}
	}

	fine, err := decimal.NewFromString(getEnvStr(EnvDailyFine, DefaultDailyFine))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", EnvDailyFine)
	}

	journal, err := getEnvBool(EnvJournal, DefaultJournal)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", EnvJournal)
	}

	return &Config{
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),
		SeedFile:  getEnvStr(EnvSeedFile, ""),
		DailyFine: fine,
		Journal:   journal,
	}, nil
}

func (cfg *Config) Validate() error {
	var problems []string

	switch cfg.LogLevel {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		problems = append(problems, fmt.Sprintf("LogLevel must be one of debug, info, warn, error, got: %s", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case logger.TEXT, logger.JSON:
	default:
		problems = append(problems, fmt.Sprintf("LogFormat must be text or json, got: %s", cfg.LogFormat))
	}
	if !cfg.DailyFine.IsPositive() {
		problems = append(problems, fmt.Sprintf("DailyFine must be positive, got: %s", cfg.DailyFine))
	}

	if len(problems) > 0 {
		msg := "configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return errors.New(msg)
	}
	return nil
}

// Logger builds the process logger from the configured level and format.
func (cfg *Config) Logger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: ServiceName,
	})
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Debug("configuration loaded",
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"seed_file", cfg.SeedFile,
		"daily_fine", cfg.DailyFine.StringFixed(2),
		"journal", cfg.Journal,
	)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}
