package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/logtally/internal/model"
)

const (
	envPrefix          = "LOGTALLY"
	defaultFormat      = model.DefaultFormat
	defaultLogFormat   = model.DefaultLogFormat
	defaultHostLimit   = model.DefaultHostLimit
	defaultMaxLineSize = model.DefaultMaxLineSize
	defaultWorkers     = 4
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	TimeRange   string   `mapstructure:"time-range"`
	Hosts       int      `mapstructure:"hosts"`
	Format      string   `mapstructure:"format"`
	LogFormat   string   `mapstructure:"log-format"`
	Verbose     bool     `mapstructure:"verbose"`
	MaxLineSize int      `mapstructure:"max-line-size"`
	Workers     int      `mapstructure:"workers"`
	Files       []string `mapstructure:"-"` // positional arguments
	ConfigPath  string   `mapstructure:"-"` // not from config file
}

// newFlagSet declares the command-line surface. Flag names double as
// configuration keys.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("logtally", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.String("time-range", "", "only count requests in <start>/<end> (ISO-8601, end exclusive)")
	fs.Int("hosts", defaultHostLimit, "number of hosts to list (0 = all)")
	fs.String("format", defaultFormat, "output format: text, json or yaml")
	fs.String("log-format", defaultLogFormat, "access log format: combined or common")
	fs.Bool("verbose", false, "log skipped lines and print a run summary to stderr")
	fs.Int("max-line-size", defaultMaxLineSize, "maximum length of a log line in bytes")
	fs.Int("workers", defaultWorkers, "number of input files ingested concurrently")
	fs.String("config", "", "config file (default is $HOME/.config/logtally/config.yml)")
	fs.Bool("version", false, "print version information")
	return fs
}

// loadConfig merges parsed flags, LOGTALLY_* environment variables, the
// config file and defaults, in that order of precedence.
func loadConfig(fs *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("time-range", "")
	v.SetDefault("hosts", defaultHostLimit)
	v.SetDefault("format", defaultFormat)
	v.SetDefault("log-format", defaultLogFormat)
	v.SetDefault("verbose", false)
	v.SetDefault("max-line-size", defaultMaxLineSize)
	v.SetDefault("workers", defaultWorkers)

	if err := v.BindPFlags(fs); err != nil {
		return cfg, fmt.Errorf("binding flags: %w", err)
	}

	configPath, _ := fs.GetString("config")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "logtally", "config.yml"))
	}

	configRead := false
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &configFileNotFound) || errors.Is(err, os.ErrNotExist)
		if configPath != "" || !missing {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else {
		configRead = true
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if configRead {
		cfg.ConfigPath = v.ConfigFileUsed()
	}
	cfg.Files = fs.Args()

	cfg.TimeRange = strings.TrimSpace(cfg.TimeRange)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.MaxLineSize <= 0 {
		return cfg, fmt.Errorf("invalid max-line-size: %d", cfg.MaxLineSize)
	}
	if cfg.Workers <= 0 {
		return cfg, fmt.Errorf("invalid workers: %d", cfg.Workers)
	}

	return cfg, nil
}
