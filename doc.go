// Package bedquilt provides schema-less JSON document collections over an
// embedded transactional store: documents addressed by a unique string _id,
// queried by structural containment, and optionally constrained by per-field
// schema rules (required, not-null, type).
//
//	db, err := bedquilt.Open(bedquilt.Options{Path: "app.db"})
//	if err != nil { ... }
//	defer db.Close()
//
//	id, err := db.Insert("users", bedquilt.Document{"name": "Ann"})
//	doc, err := db.FindOne("users", bedquilt.Document{"name": "Ann"})
//
// Collections are created implicitly by the first write. Reads and removes
// against a collection that does not exist return empty or zero results, not
// errors.
package bedquilt
