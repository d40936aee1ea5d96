package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is consulted when --config is not given; a missing file
// there is not an error.
const DefaultConfigPath = "bedquilt.yaml"

// Config mirrors the global flags that can be set from a YAML file. Flags
// given explicitly on the command line win over file values.
type Config struct {
	DB      string `yaml:"db"`
	Backend string `yaml:"backend"`
	Format  string `yaml:"format"`
}

// LoadConfig reads the config file at path. With an empty path the default
// location is tried and silently skipped when absent.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig fills options from the config file for every global flag the
// user did not set explicitly.
func applyConfig(cmd *cobra.Command, opts *RootOptions, cfg Config) {
	flags := cmd.Root().PersistentFlags()
	if cfg.DB != "" && !flags.Changed("db") {
		opts.DBPath = cfg.DB
	}
	if cfg.Backend != "" && !flags.Changed("backend") {
		opts.Backend = cfg.Backend
	}
	if cfg.Format != "" && !flags.Changed("format") {
		opts.Format = cfg.Format
	}
}
