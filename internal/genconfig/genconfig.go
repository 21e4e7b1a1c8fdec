// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genconfig loads the generator configuration that supplies artifact
// provenance and known collection gaps.
package genconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes who generates the history artifact and from what.
type Config struct {
	Repositories     []string `yaml:"repositories"`
	GeneratedBy      string   `yaml:"generated_by"`
	GeneratorVersion string   `yaml:"generator_version"`
	SourceCommitSha  string   `yaml:"source_commit_sha"`

	// Known collection gaps, carried into the artifact's completeness
	// record. Any non-empty list marks the artifact partial.
	MissingRepositories []string `yaml:"missing_repositories"`
	PermissionGaps      []string `yaml:"permission_gaps"`
	APIPartials         []string `yaml:"api_partials"`
}

// Load reads and validates a generator config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required provenance fields.
func (c *Config) Validate() error {
	if len(c.Repositories) == 0 {
		return fmt.Errorf("config missing repositories")
	}
	for i, r := range c.Repositories {
		if r == "" {
			return fmt.Errorf("repository at index %d is empty", i)
		}
	}
	if c.GeneratedBy == "" {
		return fmt.Errorf("config missing generated_by")
	}
	return nil
}
