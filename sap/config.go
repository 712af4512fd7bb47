package sap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the SAP classifier's tunable caps and filters, loadable from
// a YAML file.
type Config struct {
	MaxRoots            int `yaml:"max_roots"`
	MaxLeaves           int `yaml:"max_leaves"`
	MaxTrunk            int `yaml:"max_trunk"`
	MaxBranchSize       int `yaml:"max_branch_size"`
	MinLeafConnections  int `yaml:"min_leaf_connections"`
	MaxLeafAgeYears     int `yaml:"max_leaf_age_years"`
}

// DefaultConfig returns the classifier's default tunables.
func DefaultConfig() Config {
	return Config{
		MaxRoots:           20,
		MaxLeaves:          50,
		MaxTrunk:           20,
		MaxBranchSize:      15,
		MinLeafConnections: 3,
		MaxLeafAgeYears:    7,
	}
}

// LoadConfig reads a YAML configuration file and overlays it onto the
// defaults, so a config file only needs to name the tunables it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading SAP config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing SAP config: %w", err)
	}
	return cfg, nil
}
