// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elastic/staffsearch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration and select a profile",
	Long: `Show the effective configuration and select a cluster profile.

Profiles live in ~/.config/staffsearch/profiles.yaml. Each one names a
cluster and, optionally, the index names and budget floor to use on it.
Credentials may be written as $VAR or ${VAR} to read them from the
environment.`,
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (credentials masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatEffectiveConfig(cfg))
		return nil
	},
}

var useProfileCmd = &cobra.Command{
	Use:   "use-profile <name>",
	Short: "Make a profile the default for later runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.ReadProfiles()
		if err != nil {
			return err
		}
		name, _, err := profiles.Select(args[0])
		if err != nil {
			return err
		}
		profiles.Current = name
		if err := config.WriteProfiles(profiles); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Using profile %q\n", name)
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List profiles; the current one is starred",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := config.ReadProfiles()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatProfiles(profiles))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the profiles file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ProfilesPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// withoutConfig replaces the root pre-run so profile management keeps
// working when the selected profile itself is broken.
func withoutConfig(cmd *cobra.Command, args []string) error { return nil }

func init() {
	for _, c := range []*cobra.Command{useProfileCmd, profilesCmd, configPathCmd} {
		c.PersistentPreRunE = withoutConfig
	}
	configCmd.AddCommand(showConfigCmd, useProfileCmd, profilesCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func formatProfiles(p *config.Profiles) string {
	names := p.Names()
	if len(names) == 0 {
		path, _ := config.ProfilesPath()
		return fmt.Sprintf("No profiles defined in %s\n", path)
	}
	var b strings.Builder
	for _, name := range names {
		marker := " "
		if name == p.Current {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-16s %s\n", marker, name, p.Targets[name].Summary())
	}
	return b.String()
}

// formatEffectiveConfig renders the resolved configuration with secrets masked.
func formatEffectiveConfig(cfg config.Config) string {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "****"
	}
	profile := cfg.Profile
	if profile == "" {
		profile = "(none)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "profile:            %s\n", profile)
	fmt.Fprintf(&b, "es.url:             %s\n", cfg.ES.URL)
	fmt.Fprintf(&b, "es.api_key:         %s\n", mask(cfg.ES.APIKey))
	fmt.Fprintf(&b, "es.username:        %s\n", cfg.ES.Username)
	fmt.Fprintf(&b, "es.password:        %s\n", mask(cfg.ES.Password))
	fmt.Fprintf(&b, "es.timeout:         %s\n", cfg.ES.Timeout)
	fmt.Fprintf(&b, "es.ping_timeout:    %s\n", cfg.ES.PingTimeout)
	fmt.Fprintf(&b, "indices.employees:  %s\n", cfg.Indices.Employees)
	fmt.Fprintf(&b, "indices.projects:   %s\n", cfg.Indices.Projects)
	fmt.Fprintf(&b, "data.employees:     %s\n", cfg.Data.Employees)
	fmt.Fprintf(&b, "data.projects:      %s\n", cfg.Data.Projects)
	fmt.Fprintf(&b, "query.min_budget:   %g\n", cfg.Query.MinBudget)
	fmt.Fprintf(&b, "log.level:          %s\n", cfg.Log.Level)
	fmt.Fprintf(&b, "log.format:         %s\n", cfg.Log.Format)
	fmt.Fprintf(&b, "otlp.endpoint:      %s\n", cfg.OTLP.Endpoint)
	fmt.Fprintf(&b, "otlp.insecure:      %t\n", cfg.OTLP.Insecure)
	fmt.Fprintf(&b, "metrics.textfile:   %s\n", cfg.Metrics.Textfile)
	return b.String()
}
