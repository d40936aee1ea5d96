// Package document defines the Document type stored by bedquilt collections,
// the JSON value-kind tokens used by the constraint subsystem, and the
// canonical text encoding used wherever output must be deterministic.
//
// A Document is a string-keyed mapping of JSON values as produced by a JSON
// decoder: string, float64, bool, nil, map[string]any and []any. Every stored
// document carries a top-level "_id" string; that invariant is enforced by
// the engine, not here.
package document
