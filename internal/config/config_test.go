// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	// Root-level flags
	cmd.PersistentFlags().String("es-url", "", "")
	cmd.PersistentFlags().String("api-key", "", "")
	cmd.PersistentFlags().Duration("timeout", 0, "")
	cmd.PersistentFlags().Duration("ping-timeout", 0, "")
	cmd.PersistentFlags().String("log-level", "", "")
	cmd.PersistentFlags().String("log-format", "", "")
	cmd.PersistentFlags().String("otlp", "", "")
	cmd.PersistentFlags().String("profile", "", "")

	// Query flags (simulate query command flags)
	cmd.Flags().Float64("min-budget", 0, "")
	cmd.Flags().Bool("json", false, "")

	return cmd
}

// isolate points the profile store at an empty directory and clears the
// environment variables the tests set.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"STAFFSEARCH_ES_URL",
		"STAFFSEARCH_ES_TIMEOUT",
		"STAFFSEARCH_INDICES_EMPLOYEES",
		"STAFFSEARCH_QUERY_MIN_BUDGET",
		"STAFFSEARCH_LOG_FORMAT",
		"STAFFSEARCH_PROFILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(newTestCmd())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ES.URL != DefaultESURL {
		t.Errorf("ES.URL = %q, want %q", cfg.ES.URL, DefaultESURL)
	}
	if cfg.ES.Timeout != DefaultTimeout {
		t.Errorf("ES.Timeout = %v, want %v", cfg.ES.Timeout, DefaultTimeout)
	}
	if cfg.Indices.Employees != DefaultEmployeesIndex || cfg.Indices.Projects != DefaultProjectsIndex {
		t.Errorf("Indices = %+v", cfg.Indices)
	}
	if cfg.Data.Employees != DefaultEmployeesData {
		t.Errorf("Data.Employees = %q, want %q", cfg.Data.Employees, DefaultEmployeesData)
	}
	if cfg.Query.MinBudget != DefaultMinBudget {
		t.Errorf("Query.MinBudget = %v, want %v", cfg.Query.MinBudget, DefaultMinBudget)
	}
	if cfg.Log.Format != DefaultLogFormat || cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.OTLP.Endpoint != "" {
		t.Errorf("OTLP.Endpoint = %q, want disabled", cfg.OTLP.Endpoint)
	}
	if cfg.Profile != "" {
		t.Errorf("Profile = %q, want none", cfg.Profile)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("STAFFSEARCH_ES_URL", "http://custom:9200")
	t.Setenv("STAFFSEARCH_ES_TIMEOUT", "7s")
	t.Setenv("STAFFSEARCH_INDICES_EMPLOYEES", "staff")
	t.Setenv("STAFFSEARCH_QUERY_MIN_BUDGET", "250000")
	t.Setenv("STAFFSEARCH_LOG_FORMAT", "json")

	cfg, err := Load(newTestCmd())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ES.URL != "http://custom:9200" {
		t.Errorf("ES.URL = %q, want %q", cfg.ES.URL, "http://custom:9200")
	}
	if cfg.ES.Timeout != 7*time.Second {
		t.Errorf("ES.Timeout = %v, want 7s", cfg.ES.Timeout)
	}
	if cfg.Indices.Employees != "staff" {
		t.Errorf("Indices.Employees = %q, want %q", cfg.Indices.Employees, "staff")
	}
	if cfg.Query.MinBudget != 250000 {
		t.Errorf("Query.MinBudget = %v, want 250000", cfg.Query.MinBudget)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("STAFFSEARCH_ES_URL", "http://env:9200")

	cmd := newTestCmd()
	_ = cmd.PersistentFlags().Set("es-url", "http://flag:9200")
	_ = cmd.Flags().Set("min-budget", "5000")

	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ES.URL != "http://flag:9200" {
		t.Errorf("ES.URL = %q, want flag value", cfg.ES.URL)
	}
	if cfg.Query.MinBudget != 5000 {
		t.Errorf("Query.MinBudget = %v, want 5000", cfg.Query.MinBudget)
	}
}

func TestLoad_ProfileBetweenEnvAndDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("PROD_KEY", "resolved-key")

	budget := 0.0
	err := WriteProfiles(&Profiles{
		Current: "prod",
		Targets: map[string]Profile{
			"prod": {
				URL:            "https://prod:9243",
				APIKey:         "${PROD_KEY}",
				EmployeesIndex: "prod-employees",
				MinBudget:      &budget,
			},
		},
	})
	if err != nil {
		t.Fatalf("WriteProfiles: %v", err)
	}

	cfg, err := Load(newTestCmd())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Profile != "prod" {
		t.Errorf("Profile = %q, want prod", cfg.Profile)
	}
	if cfg.ES.URL != "https://prod:9243" {
		t.Errorf("ES.URL = %q, want profile value", cfg.ES.URL)
	}
	if cfg.ES.APIKey != "resolved-key" {
		t.Errorf("ES.APIKey = %q, want resolved env reference", cfg.ES.APIKey)
	}
	if cfg.Indices.Employees != "prod-employees" {
		t.Errorf("Indices.Employees = %q, want profile value", cfg.Indices.Employees)
	}
	if cfg.Indices.Projects != DefaultProjectsIndex {
		t.Errorf("Indices.Projects = %q, want default", cfg.Indices.Projects)
	}
	if cfg.Query.MinBudget != 0 {
		t.Errorf("Query.MinBudget = %v, want the profile's explicit 0", cfg.Query.MinBudget)
	}

	// Env beats the profile.
	t.Setenv("STAFFSEARCH_ES_URL", "http://env:9200")
	cfg, err = Load(newTestCmd())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ES.URL != "http://env:9200" {
		t.Errorf("ES.URL = %q, want env value", cfg.ES.URL)
	}
}

func TestLoad_ProfileFlagSelectsProfile(t *testing.T) {
	isolate(t)

	err := WriteProfiles(&Profiles{
		Current: "local",
		Targets: map[string]Profile{
			"local":   {URL: "http://local:9200"},
			"staging": {URL: "http://staging:9200"},
		},
	})
	if err != nil {
		t.Fatalf("WriteProfiles: %v", err)
	}

	cmd := newTestCmd()
	_ = cmd.PersistentFlags().Set("profile", "staging")
	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ES.URL != "http://staging:9200" {
		t.Errorf("ES.URL = %q, want staging", cfg.ES.URL)
	}

	cmd = newTestCmd()
	_ = cmd.PersistentFlags().Set("profile", "missing")
	if _, err := Load(cmd); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("Load error = %v, want ErrUnknownProfile", err)
	}
}

func TestLoad_InvalidEnv_FailsFast(t *testing.T) {
	isolate(t)
	t.Setenv("STAFFSEARCH_ES_TIMEOUT", "abc")

	if _, err := Load(newTestCmd()); err == nil {
		t.Fatalf("expected error for invalid duration, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ES:      ESConfig{URL: DefaultESURL, Timeout: time.Second, PingTimeout: time.Second},
			Indices: IndicesConfig{Employees: "employees", Projects: "projects"},
			Data:    DataConfig{Employees: "e.json", Projects: "p.json"},
			Query:   QueryConfig{MinBudget: DefaultMinBudget},
			Log:     LogConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing url", func(c *Config) { c.ES.URL = " " }, true},
		{"zero timeout", func(c *Config) { c.ES.Timeout = 0 }, true},
		{"same index names", func(c *Config) { c.Indices.Projects = "employees" }, true},
		{"missing fixture", func(c *Config) { c.Data.Projects = "" }, true},
		{"negative budget", func(c *Config) { c.Query.MinBudget = -1 }, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"json format", func(c *Config) { c.Log.Format = "json" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
