package cli

import (
	"github.com/spf13/cobra"

	bedquilt "github.com/clix-dev-llc/bedquilt-core"
)

// NewCollectionCommand groups the collection lifecycle commands.
func NewCollectionCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage collections",
	}
	cmd.AddCommand(newCollectionCreate(opts))
	cmd.AddCommand(newCollectionList(opts))
	cmd.AddCommand(newCollectionDrop(opts))
	return cmd
}

func newCollectionCreate(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection if it does not exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			created, err := db.CreateCollection(args[0])
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(created)
		},
	}
}

func newCollectionList(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			names, err := db.ListCollections()
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitStrings(names)
		},
	}
}

func newCollectionDrop(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <name>",
		Short: "Drop a collection with its documents and constraints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			dropped, err := db.DropCollection(args[0])
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(dropped)
		},
	}
}

// formatter builds the output formatter for a command invocation.
func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// operationError classifies an engine error for the shell: store failures
// are environment problems (exit 2), everything else is an operation
// failure (exit 1).
func operationError(err error) error {
	if bedquilt.IsStoreFailure(err) {
		return WrapExitError(ExitCommandError, "store failure", err)
	}
	return WrapExitError(ExitFailure, "operation failed", err)
}
