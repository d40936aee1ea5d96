package bedquilt

import (
	"go.uber.org/zap"

	"github.com/clix-dev-llc/bedquilt-core/internal/constraint"
	"github.com/clix-dev-llc/bedquilt-core/internal/document"
	"github.com/clix-dev-llc/bedquilt-core/internal/engine"
	"github.com/clix-dev-llc/bedquilt-core/internal/store"
)

// Document is a schema-less JSON document: a string-keyed mapping of
// JSON-typed values. Stored documents carry a string under "_id".
type Document = document.Document

// Constraint is an active schema rule on one field of one collection.
type Constraint = constraint.Rule

// Options configures Open.
type Options struct {
	// Backend selects the store: "sqlite" (default), "bolt" or "memory".
	Backend string
	// Path locates the database file. Ignored by the memory backend.
	Path string
	// Logger receives structured operation logs. Nil disables logging.
	Logger *zap.SugaredLogger
}

// DB is a handle on a bedquilt database. Safe for concurrent use.
type DB struct {
	engine *engine.Engine
	store  store.Store
}

// Open opens (creating if needed) a bedquilt database.
func Open(opts Options) (*DB, error) {
	st, err := store.New(opts.Backend, opts.Path, sugared(opts.Logger))
	if err != nil {
		return nil, err
	}
	return &DB{engine: engine.New(st, opts.Logger), store: st}, nil
}

// Close releases the underlying store.
func (db *DB) Close() error {
	return db.store.Close()
}

// CollectionExists reports whether the named collection exists.
func (db *DB) CollectionExists(name string) (bool, error) {
	return db.engine.CollectionExists(name)
}

// CreateCollection creates the collection if absent; reports whether this
// call created it. Idempotent and race-tolerant.
func (db *DB) CreateCollection(name string) (bool, error) {
	return db.engine.CreateCollection(name)
}

// ListCollections returns all collection names.
func (db *DB) ListCollections() ([]string, error) {
	return db.engine.ListCollections()
}

// DropCollection atomically removes the collection, its documents and its
// constraints; reports whether a collection existed to drop.
func (db *DB) DropCollection(name string) (bool, error) {
	return db.engine.DropCollection(name)
}

// Insert stores a new document and returns its final _id.
func (db *DB) Insert(collection string, doc Document) (string, error) {
	return db.engine.Insert(collection, doc)
}

// Save upserts a document keyed by _id and returns the _id.
func (db *DB) Save(collection string, doc Document) (string, error) {
	return db.engine.Save(collection, doc)
}

// Find returns every document satisfying the containment query.
func (db *DB) Find(collection string, query Document) ([]Document, error) {
	return db.engine.Find(collection, query)
}

// FindOne returns the first matching document, or nil.
func (db *DB) FindOne(collection string, query Document) (Document, error) {
	return db.engine.FindOne(collection, query)
}

// FindOneByID returns the document stored under id, or nil.
func (db *DB) FindOneByID(collection, id string) (Document, error) {
	return db.engine.FindOneByID(collection, id)
}

// Count returns the number of documents satisfying the query.
func (db *DB) Count(collection string, query Document) (int, error) {
	return db.engine.Count(collection, query)
}

// Remove deletes every matching document and returns how many were removed.
func (db *DB) Remove(collection string, query Document) (int, error) {
	return db.engine.Remove(collection, query)
}

// RemoveOne deletes the first matching document; returns 0 or 1.
func (db *DB) RemoveOne(collection string, query Document) (int, error) {
	return db.engine.RemoveOne(collection, query)
}

// RemoveOneByID deletes the document stored under id; returns 0 or 1.
func (db *DB) RemoveOneByID(collection, id string) (int, error) {
	return db.engine.RemoveOneByID(collection, id)
}

// AddConstraints registers the rules in spec; true iff any rule was newly
// added.
func (db *DB) AddConstraints(collection string, spec Document) (bool, error) {
	return db.engine.AddConstraints(collection, spec)
}

// RemoveConstraints drops the rules in spec; true iff any rule existed.
func (db *DB) RemoveConstraints(collection string, spec Document) (bool, error) {
	return db.engine.RemoveConstraints(collection, spec)
}

// ListConstraints enumerates the active rules on the collection.
func (db *DB) ListConstraints(collection string) ([]Constraint, error) {
	return db.engine.ListConstraints(collection)
}

func sugared(logger *zap.SugaredLogger) *zap.SugaredLogger {
	if logger == nil {
		return zap.NewNop().Sugar()
	}
	return logger
}
