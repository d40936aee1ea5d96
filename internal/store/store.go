package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

// ErrDuplicateID is returned by Put when the id already exists in the
// collection. The engine maps it to a conflict error; it is never resolved by
// overwriting.
var ErrDuplicateID = errors.New("duplicate document id")

// NamedRule is a persisted schema rule. The rule payload is opaque to the
// store; the constraint package encodes and decodes it.
type NamedRule struct {
	Name string
	Rule []byte
}

// Store is the transactional substrate the document engine requires.
//
// Lifecycle operations are atomic: CreateCollectionIfAbsent never races a
// concurrent creator into duplicates or spurious errors, and DropCollection
// removes the collection, its documents and its checks as one unit.
//
// Read-style operations on a collection that does not exist return empty
// results, not errors.
type Store interface {
	// ExistsCollection reports whether the named collection exists.
	ExistsCollection(name string) (bool, error)

	// CreateCollectionIfAbsent creates the collection if missing and reports
	// whether this call created it. Safe to call redundantly and
	// concurrently.
	CreateCollectionIfAbsent(name string) (bool, error)

	// DropCollection atomically removes the collection, all its documents
	// and all its checks. Reports whether a collection existed to drop.
	DropCollection(name string) (bool, error)

	// ListCollections returns the names of all document collections.
	ListCollections() ([]string, error)

	// Put inserts a new document under id. Returns ErrDuplicateID (possibly
	// wrapped) if the id is taken. The collection must exist.
	Put(collection, id string, doc document.Document) error

	// Replace stores doc under id, overwriting any prior content atomically
	// (insert-or-replace). The collection must exist.
	Replace(collection, id string, doc document.Document) error

	// Get returns the document stored under id, or nil if absent.
	Get(collection, id string) (document.Document, error)

	// ScanMatching returns all documents satisfying the containment query,
	// ordered by ascending id. A nil or empty query matches everything.
	ScanMatching(collection string, query document.Document) ([]document.Document, error)

	// DeleteMatching removes all documents satisfying the containment query
	// and returns them, ordered by ascending id.
	DeleteMatching(collection string, query document.Document) ([]document.Document, error)

	// AddCheck persists a schema rule under its name, idempotently. Reports
	// whether this call added it. The collection must exist.
	AddCheck(collection, name string, rule []byte) (bool, error)

	// DropCheck removes the named rule if present and reports whether it
	// existed.
	DropCheck(collection, name string) (bool, error)

	// ListChecks returns all persisted rules for the collection, ordered by
	// name.
	ListChecks(collection string) ([]NamedRule, error)

	Close() error
}

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"sqlite" - SQLite database at path (default)
//	"bolt"   - bbolt database at path
//	"memory" - in-memory, ephemeral
func New(backend, path string, logger *zap.SugaredLogger) (Store, error) {
	switch backend {
	case "sqlite", "":
		return OpenSQLite(path, logger)
	case "bolt":
		return OpenBolt(path, logger)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: sqlite, bolt, memory)", backend)
	}
}
