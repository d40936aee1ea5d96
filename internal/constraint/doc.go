// Package constraint implements bedquilt's per-field schema rules: required,
// not-null and type constraints, parsed from JSON spec documents, named
// deterministically, and evaluated against documents on every write.
package constraint
