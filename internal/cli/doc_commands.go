package cli

import (
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	bedquilt "github.com/clix-dev-llc/bedquilt-core"
)

// NewDocCommand groups the document operations.
func NewDocCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Insert, query and remove documents",
	}
	cmd.AddCommand(newDocInsert(opts))
	cmd.AddCommand(newDocSave(opts))
	cmd.AddCommand(newDocFind(opts))
	cmd.AddCommand(newDocFindOne(opts))
	cmd.AddCommand(newDocGet(opts))
	cmd.AddCommand(newDocCount(opts))
	cmd.AddCommand(newDocRemove(opts))
	cmd.AddCommand(newDocRemoveOne(opts))
	cmd.AddCommand(newDocRemoveID(opts))
	return cmd
}

// parseJSONArg decodes a JSON object argument into a document.
func parseJSONArg(arg string) (bedquilt.Document, error) {
	var doc bedquilt.Document
	if err := gojson.Unmarshal([]byte(arg), &doc); err != nil {
		return nil, WrapExitError(ExitFailure, "parse JSON argument", err)
	}
	return doc, nil
}

// optionalQuery decodes the trailing query argument, nil when omitted.
func optionalQuery(args []string) (bedquilt.Document, error) {
	if len(args) < 2 {
		return nil, nil
	}
	return parseJSONArg(args[1])
}

func newDocInsert(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <collection> <json>",
		Short: "Insert a document, printing its _id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseJSONArg(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := db.Insert(args[0], doc)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(id)
		},
	}
}

func newDocSave(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <collection> <json>",
		Short: "Insert or replace a document keyed by _id, printing its _id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseJSONArg(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := db.Save(args[0], doc)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(id)
		},
	}
}

func newDocFind(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <collection> [query-json]",
		Short: "Print every document matching the containment query",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := optionalQuery(args)
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			docs, err := db.Find(args[0], query)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitDocuments(docs)
		},
	}
}

func newDocFindOne(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "findone <collection> [query-json]",
		Short: "Print the first document matching the containment query",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := optionalQuery(args)
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			doc, err := db.FindOne(args[0], query)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitDocument(doc)
		},
	}
}

func newDocGet(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Print the document stored under the given _id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			doc, err := db.FindOneByID(args[0], args[1])
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitDocument(doc)
		},
	}
}

func newDocCount(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <collection> [query-json]",
		Short: "Count documents matching the containment query",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := optionalQuery(args)
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.Count(args[0], query)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(n)
		},
	}
}

func newDocRemove(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection> <query-json>",
		Short: "Remove every document matching the query, printing the count",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseJSONArg(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.Remove(args[0], query)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(n)
		},
	}
}

func newDocRemoveOne(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "removeone <collection> <query-json>",
		Short: "Remove the first document matching the query, printing 0 or 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseJSONArg(args[1])
			if err != nil {
				return err
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.RemoveOne(args[0], query)
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(n)
		},
	}
}

func newDocRemoveID(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "removeid <collection> <id>",
		Short: "Remove the document stored under the given _id, printing 0 or 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.RemoveOneByID(args[0], args[1])
			if err != nil {
				return operationError(err)
			}
			return formatter(cmd, opts).EmitValue(n)
		},
	}
}
