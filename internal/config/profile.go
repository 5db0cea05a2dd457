// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profiles are named cluster targets kept in ~/.config/staffsearch/profiles.yaml.
// The selected profile fills the layer between environment and defaults.
type Profiles struct {
	Current string             `yaml:"current,omitempty"`
	Targets map[string]Profile `yaml:"profiles,omitempty"`
}

// Profile describes one cluster and how staffsearch uses it. Empty fields
// leave the lower layers in effect.
type Profile struct {
	URL            string   `yaml:"url,omitempty"`
	APIKey         string   `yaml:"api_key,omitempty"`
	Username       string   `yaml:"username,omitempty"`
	Password       string   `yaml:"password,omitempty"`
	EmployeesIndex string   `yaml:"employees_index,omitempty"`
	ProjectsIndex  string   `yaml:"projects_index,omitempty"`
	MinBudget      *float64 `yaml:"min_budget,omitempty"`
	OTLPEndpoint   string   `yaml:"otlp_endpoint,omitempty"`
}

// ErrUnknownProfile is returned when a profile is selected that the file
// does not define.
var ErrUnknownProfile = errors.New("unknown profile")

const (
	ConfigDirName    = "staffsearch"
	ProfilesFileName = "profiles.yaml"
)

// ProfilesPath returns the profiles file location, honoring XDG_CONFIG_HOME.
func ProfilesPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, ConfigDirName, ProfilesFileName), nil
}

// ReadProfiles reads the profiles file. A missing file is an empty set.
func ReadProfiles() (*Profiles, error) {
	path, err := ProfilesPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Profiles{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

// WriteProfiles stores p with owner-only permissions, since profiles may
// hold credentials.
func WriteProfiles(p *Profiles) error {
	path, err := ProfilesPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Names returns the defined profile names, sorted.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Targets))
	for name := range p.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the profile called name, or the current one when name is
// empty. With neither set it returns an empty name and no error.
func (p *Profiles) Select(name string) (string, Profile, error) {
	if name == "" {
		name = p.Current
	}
	if name == "" {
		return "", Profile{}, nil
	}
	profile, ok := p.Targets[name]
	if !ok {
		return "", Profile{}, fmt.Errorf("%w %q (defined: %s)", ErrUnknownProfile, name, strings.Join(p.Names(), ", "))
	}
	return name, profile, nil
}

// Summary is a one-line description for listings. Credentials are left out.
func (p Profile) Summary() string {
	var parts []string
	if p.URL != "" {
		parts = append(parts, p.URL)
	}
	if p.EmployeesIndex != "" || p.ProjectsIndex != "" {
		parts = append(parts, fmt.Sprintf("indices %s/%s", orDefault(p.EmployeesIndex, DefaultEmployeesIndex), orDefault(p.ProjectsIndex, DefaultProjectsIndex)))
	}
	if p.MinBudget != nil {
		parts = append(parts, fmt.Sprintf("min budget %g", *p.MinBudget))
	}
	if p.APIKey != "" || p.Username != "" {
		parts = append(parts, "authenticated")
	}
	if len(parts) == 0 {
		return "(defaults)"
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// expand reads credentials written as $VAR or ${VAR} from the environment.
// An unset variable is an error rather than an empty credential.
func (p Profile) expand() (Profile, error) {
	var missing []string
	fromEnv := func(value string) string {
		if !strings.HasPrefix(value, "$") {
			return value
		}
		name := strings.TrimSuffix(strings.TrimPrefix(value[1:], "{"), "}")
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return v
	}
	p.APIKey = fromEnv(p.APIKey)
	p.Username = fromEnv(p.Username)
	p.Password = fromEnv(p.Password)
	if len(missing) > 0 {
		return Profile{}, fmt.Errorf("undefined environment variables: %s", strings.Join(missing, ", "))
	}
	return p, nil
}

// settings returns the profile's values keyed like Config, omitting
// everything the profile leaves empty.
func (p Profile) settings() map[string]any {
	out := map[string]any{}
	set := func(section, key string, value any) {
		if s, ok := value.(string); ok && s == "" {
			return
		}
		m, _ := out[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			out[section] = m
		}
		m[key] = value
	}
	set("es", "url", p.URL)
	set("es", "api_key", p.APIKey)
	set("es", "username", p.Username)
	set("es", "password", p.Password)
	set("indices", "employees", p.EmployeesIndex)
	set("indices", "projects", p.ProjectsIndex)
	if p.MinBudget != nil {
		set("query", "min_budget", *p.MinBudget)
	}
	set("otlp", "endpoint", p.OTLPEndpoint)
	return out
}
