// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elastic/staffsearch/internal/config"
	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/logger"
	"github.com/elastic/staffsearch/internal/metrics"
	"github.com/elastic/staffsearch/internal/otlp"
	"github.com/elastic/staffsearch/internal/pipeline"
)

const serviceName = "staffsearch"

var rootCmd = &cobra.Command{
	Use:   "staffsearch",
	Short: "Provision, load and query a demo staff directory in Elasticsearch",
	Long: `staffsearch - Provision the employees and projects indices, bulk-load the
fixture data and run a set of full-text, fuzzy, wildcard and nested queries.

Run everything with 'staffsearch run', or one stage at a time with
'staffsearch setup', 'staffsearch load' and 'staffsearch query'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		ctx := config.WithContext(cmd.Context(), cfg)

		log, err := setupLogging(ctx, cfg)
		if err != nil {
			return err
		}
		ctx = logger.ContextWithLogger(ctx, log)

		state.metricsTextfile = cfg.Metrics.Textfile
		cmd.SetContext(ctx)
		return nil
	},
}

func init() {
	// Global flags (Viper precedence: flags > env > profile > defaults)
	rootCmd.PersistentFlags().String("es-url", config.DefaultESURL, "Elasticsearch URL (env: STAFFSEARCH_ES_URL)")
	rootCmd.PersistentFlags().String("api-key", "", "Elasticsearch API key (env: STAFFSEARCH_ES_API_KEY)")
	rootCmd.PersistentFlags().String("username", "", "Elasticsearch username (env: STAFFSEARCH_ES_USERNAME)")
	rootCmd.PersistentFlags().String("password", "", "Elasticsearch password (env: STAFFSEARCH_ES_PASSWORD)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Request timeout per command (env: STAFFSEARCH_ES_TIMEOUT)")
	rootCmd.PersistentFlags().Duration("ping-timeout", config.DefaultPingTimeout, "Elasticsearch ping timeout (env: STAFFSEARCH_ES_PING_TIMEOUT)")
	rootCmd.PersistentFlags().String("employees-index", config.DefaultEmployeesIndex, "Employees index name (env: STAFFSEARCH_INDICES_EMPLOYEES)")
	rootCmd.PersistentFlags().String("projects-index", config.DefaultProjectsIndex, "Projects index name (env: STAFFSEARCH_INDICES_PROJECTS)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error (env: STAFFSEARCH_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: console or json (env: STAFFSEARCH_LOG_FORMAT)")
	rootCmd.PersistentFlags().String("otlp", "", "Export logs to this OTLP/HTTP endpoint (env: STAFFSEARCH_OTLP_ENDPOINT)")
	rootCmd.PersistentFlags().Bool("otlp-insecure", true, "Use plain HTTP for OTLP export (env: STAFFSEARCH_OTLP_INSECURE)")
	rootCmd.PersistentFlags().String("metrics-textfile", "", "Write Prometheus metrics to this file at exit (env: STAFFSEARCH_METRICS_TEXTFILE)")
	rootCmd.PersistentFlags().String("profile", "", "Configuration profile to use (env: STAFFSEARCH_PROFILE)")
}

// state holds what main must release after the command returns.
var state struct {
	otlp            *otlp.Client
	logger          *zap.Logger
	metricsTextfile string
}

func setupLogging(ctx context.Context, cfg config.Config) (*zap.Logger, error) {
	var extra []zapcore.Core
	if cfg.OTLP.Endpoint != "" {
		client, err := otlp.New(ctx, otlp.Config{
			Endpoint:    cfg.OTLP.Endpoint,
			Insecure:    cfg.OTLP.Insecure,
			ServiceName: serviceName,
		})
		if err != nil {
			return nil, err
		}
		state.otlp = client
		extra = append(extra, client.Core())
	}

	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level, os.Stdout, extra...)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	state.logger = log
	if cfg.Profile != "" {
		log.Debug("using profile", zap.String("profile", cfg.Profile))
	}
	return log, nil
}

// shutdown flushes logs, writes the metrics textfile and stops OTLP export.
func shutdown() error {
	var errs []error
	if state.metricsTextfile != "" {
		errs = append(errs, metrics.WriteTextfile(state.metricsTextfile))
	}
	if state.logger != nil {
		_ = state.logger.Sync()
	}
	if state.otlp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := state.otlp.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush OTLP logs: %w", err))
		}
	}
	return errors.Join(errs...)
}

// loadedConfig returns the configuration stored by PersistentPreRunE.
func loadedConfig(ctx context.Context) (config.Config, error) {
	cfg, ok := config.FromContext(ctx)
	if !ok {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// connect builds a client and checks the cluster answers.
func connect(ctx context.Context, cfg config.Config) (*es.Client, error) {
	client, err := es.NewFromConfig(cfg.ES.URL, cfg.ES.APIKey, cfg.ES.Username, cfg.ES.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ES.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("cannot connect to Elasticsearch at %s: %w", cfg.ES.URL, err)
	}
	return client, nil
}

func pipelineConfig(cfg config.Config) pipeline.Config {
	return pipeline.Config{
		EmployeesIndex: cfg.Indices.Employees,
		ProjectsIndex:  cfg.Indices.Projects,
		EmployeesData:  cfg.Data.Employees,
		ProjectsData:   cfg.Data.Projects,
		MinBudget:      cfg.Query.MinBudget,
	}
}
