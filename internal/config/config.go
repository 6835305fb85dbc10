// Package config loads runtime settings from defaults, optional YAML files,
// an optional .env file and CADENCE_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CADENCE"

type Config struct {
	DBPath              string        `mapstructure:"db_path"`
	Tenant              string        `mapstructure:"tenant"`
	DefaultThresholdPct float64       `mapstructure:"default_threshold_pct"`
	SyncParallelism     int           `mapstructure:"sync_parallelism"`
	SyncMemberTimeout   time.Duration `mapstructure:"sync_member_timeout"`
	DistributionTimeout time.Duration `mapstructure:"distribution_timeout"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFormat           string        `mapstructure:"log_format"`
	// AMQPURL enables distribution notifications when set.
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		DBPath:              "cadence.db",
		Tenant:              "default",
		DefaultThresholdPct: 70,
		SyncParallelism:     4,
		SyncMemberTimeout:   5 * time.Second,
		DistributionTimeout: 15 * time.Second,
		LogLevel:            "info",
		LogFormat:           "text",
		AMQPExchange:        "cadence.events",
	}
}

// Load reads configuration for the current user and working directory.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("finding working directory: %w", err)
	}
	return LoadFrom(home, cwd)
}

// LoadFrom reads homeDir/.cadence/config.yaml, then workDir/cadence.yaml,
// then workDir/.env and the environment. Missing files are skipped.
func LoadFrom(homeDir, workDir string) (Config, error) {
	if err := loadDotEnv(filepath.Join(workDir, ".env")); err != nil {
		return Config{}, err
	}

	defaults := DefaultConfig()
	defaults.DBPath = filepath.Join(homeDir, ".cadence", "cadence.db")

	v := viper.New()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("tenant", defaults.Tenant)
	v.SetDefault("default_threshold_pct", defaults.DefaultThresholdPct)
	v.SetDefault("sync_parallelism", defaults.SyncParallelism)
	v.SetDefault("sync_member_timeout", defaults.SyncMemberTimeout)
	v.SetDefault("distribution_timeout", defaults.DistributionTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("amqp_url", defaults.AMQPURL)
	v.SetDefault("amqp_exchange", defaults.AMQPExchange)

	v.SetConfigType("yaml")
	for _, path := range []string{
		filepath.Join(homeDir, ".cadence", "config.yaml"),
		filepath.Join(workDir, "cadence.yaml"),
	} {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return Config{}, fmt.Errorf("checking %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv exports the variables of path unless already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if strings.TrimSpace(c.Tenant) == "" {
		errs = append(errs, errors.New("tenant is required"))
	}
	if c.DefaultThresholdPct < 0 || c.DefaultThresholdPct > 100 {
		errs = append(errs, fmt.Errorf("default_threshold_pct must be between 0 and 100, got %v", c.DefaultThresholdPct))
	}
	if c.SyncParallelism < 1 {
		errs = append(errs, fmt.Errorf("sync_parallelism must be at least 1, got %d", c.SyncParallelism))
	}
	if c.SyncMemberTimeout < 0 || c.DistributionTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.AMQPURL != "" && c.AMQPExchange == "" {
		errs = append(errs, errors.New("amqp_exchange is required when amqp_url is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
