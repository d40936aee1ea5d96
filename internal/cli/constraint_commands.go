package cli

import (
	"github.com/spf13/cobra"
)

// NewConstraintCommand groups the constraint subsystem commands.
func NewConstraintCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constraint",
		Short: "Manage per-field schema constraints",
	}
	cmd.AddCommand(newConstraintAdd(opts))
	cmd.AddCommand(newConstraintRemove(opts))
	cmd.AddCommand(newConstraintList(opts))
	return cmd
}

func newConstraintAdd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection> <spec-json>",
		Short: "Add constraints from a spec, printing whether any were new",
		Long: `Add constraints from a spec document mapping field names to rules:

  bedquilt constraint add users '{"name": {"$required": 1, "$type": "string"}}'

Re-adding an identical constraint is a no-op. Declaring a $type on a field
that already has a different $type fails; remove the old one first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := parseJSONArg(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			added, err := db.AddConstraints(args[0], spec)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(added)
		},
	}
}

func newConstraintRemove(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection> <spec-json>",
		Short: "Remove constraints from a spec, printing whether any existed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := parseJSONArg(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			removed, err := db.RemoveConstraints(args[0], spec)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(removed)
		},
	}
}

func newConstraintList(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "List active constraints on a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			rules, err := db.ListConstraints(args[0])
			if err != nil {
				return operationError(err)
			}
			out := formatter(cmd, opts)
			if opts.Format == "json" {
				return out.EmitValue(rules)
			}
			names := make([]string, len(rules))
			for i, r := range rules {
				names[i] = r.Name()
			}
			return out.EmitStrings(names)
		},
	}
}
