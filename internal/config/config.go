// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package config provides centralized configuration management for staffsearch.
// It supports deterministic precedence (flags > env > profile > defaults) using
// Viper, and fail-fast validation to prevent silent misconfiguration.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/elastic/staffsearch/internal/index"
)

// Config holds all application configuration.
type Config struct {
	ES      ESConfig      `mapstructure:"es"`
	Indices IndicesConfig `mapstructure:"indices"`
	Data    DataConfig    `mapstructure:"data"`
	Query   QueryConfig   `mapstructure:"query"`
	Log     LogConfig     `mapstructure:"log"`
	OTLP    OTLPConfig    `mapstructure:"otlp"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Profile is the name of the profile that supplied values, if any.
	Profile string `mapstructure:"-"`
}

// ESConfig holds Elasticsearch connection settings.
type ESConfig struct {
	URL         string        `mapstructure:"url"`          // Elasticsearch URL
	APIKey      string        `mapstructure:"api_key"`      // Takes precedence over basic auth
	Username    string        `mapstructure:"username"`     // Basic auth user
	Password    string        `mapstructure:"password"`     // Basic auth password
	Timeout     time.Duration `mapstructure:"timeout"`      // Per-command request timeout
	PingTimeout time.Duration `mapstructure:"ping_timeout"` // Ping timeout
}

// IndicesConfig names the two indices.
type IndicesConfig struct {
	Employees string `mapstructure:"employees"`
	Projects  string `mapstructure:"projects"`
}

// DataConfig holds the fixture file paths.
type DataConfig struct {
	Employees string `mapstructure:"employees"`
	Projects  string `mapstructure:"projects"`
}

// QueryConfig holds query tuning.
type QueryConfig struct {
	MinBudget float64 `mapstructure:"min_budget"` // Budget floor of the compound queries
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// OTLPConfig holds OpenTelemetry Protocol settings.
type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"` // OTLP HTTP endpoint; empty disables export
	Insecure bool   `mapstructure:"insecure"` // Use insecure connection
}

// MetricsConfig holds run metrics settings.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // Prometheus textfile written at exit
}

// Default configuration values.
const (
	DefaultESURL          = "http://localhost:9200"
	DefaultTimeout        = 30 * time.Second
	DefaultPingTimeout    = 5 * time.Second
	DefaultEmployeesIndex = index.Employees
	DefaultProjectsIndex  = index.Projects
	DefaultEmployeesData  = "data/employees.json"
	DefaultProjectsData   = "data/projects.json"
	DefaultMinBudget      = 100000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STAFFSEARCH"

// ContextKey is used to store config in context.
type ContextKey struct{}

// FromContext retrieves Config from context.
func FromContext(ctx context.Context) (Config, bool) {
	cfg, ok := ctx.Value(ContextKey{}).(Config)
	return cfg, ok
}

// WithContext stores Config in context.
func WithContext(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ContextKey{}, cfg)
}

// Load builds a Config using Viper with precedence: flags > env > profile > defaults.
// It binds flags from the command (and its parents) and fails fast on invalid values.
func Load(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindFlagsRecursive(v, cmd); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	profileName, err := applyProfile(v, profileFlag(cmd))
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Profile = profileName

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers default values with Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("es.url", DefaultESURL)
	v.SetDefault("es.api_key", "")
	v.SetDefault("es.username", "")
	v.SetDefault("es.password", "")
	v.SetDefault("es.timeout", DefaultTimeout)
	v.SetDefault("es.ping_timeout", DefaultPingTimeout)

	v.SetDefault("indices.employees", DefaultEmployeesIndex)
	v.SetDefault("indices.projects", DefaultProjectsIndex)

	v.SetDefault("data.employees", DefaultEmployeesData)
	v.SetDefault("data.projects", DefaultProjectsData)

	v.SetDefault("query.min_budget", DefaultMinBudget)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("otlp.endpoint", "")
	v.SetDefault("otlp.insecure", true)

	v.SetDefault("metrics.textfile", "")
}

// profileFlag returns the profile requested by --profile or STAFFSEARCH_PROFILE.
func profileFlag(cmd *cobra.Command) string {
	if cmd != nil {
		if f := cmd.Flag("profile"); f != nil && f.Changed {
			return f.Value.String()
		}
	}
	return os.Getenv(EnvPrefix + "_PROFILE")
}

// applyProfile merges the selected profile into Viper's config layer, which
// sits below flags and env but above defaults.
func applyProfile(v *viper.Viper, requested string) (string, error) {
	profiles, err := ReadProfiles()
	if err != nil {
		return "", err
	}
	name, p, err := profiles.Select(requested)
	if err != nil || name == "" {
		return "", err
	}

	p, err = p.expand()
	if err != nil {
		return "", fmt.Errorf("profile %q: %w", name, err)
	}
	if err := v.MergeConfigMap(p.settings()); err != nil {
		return "", fmt.Errorf("apply profile %q: %w", name, err)
	}
	return name, nil
}

// bindFlagsRecursive binds flags from cmd and all parents so Viper sees them.
func bindFlagsRecursive(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}
	if err := bindFlagSet(v, cmd.Flags()); err != nil {
		return err
	}
	if err := bindFlagSet(v, cmd.PersistentFlags()); err != nil {
		return err
	}
	return bindFlagsRecursive(v, cmd.Parent())
}

// flagToKey maps flag names to nested Viper keys.
var flagToKey = map[string]string{
	"es-url":           "es.url",
	"api-key":          "es.api_key",
	"username":         "es.username",
	"password":         "es.password",
	"timeout":          "es.timeout",
	"ping-timeout":     "es.ping_timeout",
	"employees-index":  "indices.employees",
	"projects-index":   "indices.projects",
	"employees-data":   "data.employees",
	"projects-data":    "data.projects",
	"min-budget":       "query.min_budget",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"otlp":             "otlp.endpoint",
	"otlp-insecure":    "otlp.insecure",
	"metrics-textfile": "metrics.textfile",
}

// bindFlagSet binds the mapped flags of fs. Command-local flags such as
// --json or --watch stay out of the configuration.
func bindFlagSet(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagToKey[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Validate enforces correctness and fails fast on invalid configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ES.URL) == "" {
		return fmt.Errorf("es.url is required")
	}
	if c.ES.Timeout <= 0 {
		return fmt.Errorf("es.timeout must be > 0")
	}
	if c.ES.PingTimeout <= 0 {
		return fmt.Errorf("es.ping_timeout must be > 0")
	}
	if strings.TrimSpace(c.Indices.Employees) == "" {
		return fmt.Errorf("indices.employees is required")
	}
	if strings.TrimSpace(c.Indices.Projects) == "" {
		return fmt.Errorf("indices.projects is required")
	}
	if c.Indices.Employees == c.Indices.Projects {
		return fmt.Errorf("indices.employees and indices.projects must differ")
	}
	if strings.TrimSpace(c.Data.Employees) == "" {
		return fmt.Errorf("data.employees is required")
	}
	if strings.TrimSpace(c.Data.Projects) == "" {
		return fmt.Errorf("data.projects is required")
	}
	if c.Query.MinBudget < 0 {
		return fmt.Errorf("query.min_budget must be >= 0")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
