// Package cli implements the bedquilt command line surface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bedquilt "github.com/clix-dev-llc/bedquilt-core"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Backend    string
	Format     string // "json" | "text"
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bedquilt CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bedquilt",
		Short:         "bedquilt - JSON document collections over an embedded store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			applyConfig(cmd, opts, cfg)
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "bedquilt.db", "path to the database file")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "sqlite", "store backend (sqlite|bolt|memory)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewCollectionCommand(opts))
	cmd.AddCommand(NewDocCommand(opts))
	cmd.AddCommand(NewConstraintCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openDB opens the database selected by the global flags.
func openDB(opts *RootOptions) (*bedquilt.DB, error) {
	db, err := bedquilt.Open(bedquilt.Options{
		Backend: opts.Backend,
		Path:    opts.DBPath,
		Logger:  newLogger(opts.Verbose),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return db, nil
}

func newLogger(verbose bool) *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
