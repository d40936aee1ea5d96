// Package engine implements bedquilt's document-collection semantics: the
// collection registry, the constraint subsystem and the document operations
// (insert, save, find, count, remove), composed over the persistent store.
//
// The engine itself is synchronous and stateless; every operation is a
// single logical unit of work against the store and inherits its atomicity.
// Reads and removes against a collection that does not exist degrade to
// empty or zero results rather than erroring.
package engine
