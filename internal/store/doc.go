// Package store defines the persistent-store boundary the document engine
// writes through, and its three backends: sqlite (default, durable), bolt
// (bbolt file), and memory (ephemeral, for tests and embedding).
//
// The store owns namespace lifecycle (collections), document storage with id
// uniqueness, structural schema-rule storage (checks), and the native
// containment predicate used for scans and deletes. Backends must agree on
// every predicate evaluation: the sqlite backend registers the in-process
// matcher as a SQL function, the others call it directly, so agreement holds
// by construction.
package store
