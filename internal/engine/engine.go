package engine

import (
	"go.uber.org/zap"

	"github.com/clix-dev-llc/bedquilt-core/internal/store"
)

// Engine exposes the document-collection operation set over a Store.
type Engine struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// New creates an engine over st. A nil logger disables logging.
func New(st store.Store, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{store: st, logger: logger}
}

// CollectionExists reports whether the named collection exists.
func (e *Engine) CollectionExists(name string) (bool, error) {
	exists, err := e.store.ExistsCollection(name)
	if err != nil {
		return false, storeFailure(name, err)
	}
	return exists, nil
}

// CreateCollection creates the collection if absent and reports whether this
// call created it. Redundant and concurrent calls are safe: creation is a
// single atomic create-if-absent against the store, never an existence check
// followed by a separate create.
func (e *Engine) CreateCollection(name string) (bool, error) {
	if name == "" {
		return false, invalidInput("", "", "collection name must not be empty")
	}
	created, err := e.store.CreateCollectionIfAbsent(name)
	if err != nil {
		return false, storeFailure(name, err)
	}
	if created {
		e.logger.Infow("created collection", "collection", name)
	}
	return created, nil
}

// ListCollections returns the names of all document collections. Order is
// not significant to callers.
func (e *Engine) ListCollections() ([]string, error) {
	names, err := e.store.ListCollections()
	if err != nil {
		return nil, storeFailure("", err)
	}
	return names, nil
}

// DropCollection removes the collection, all its documents and all its
// constraints atomically, and reports whether a collection existed to drop.
func (e *Engine) DropCollection(name string) (bool, error) {
	dropped, err := e.store.DropCollection(name)
	if err != nil {
		return false, storeFailure(name, err)
	}
	if dropped {
		e.logger.Infow("dropped collection", "collection", name)
	}
	return dropped, nil
}

// ensureCollection implicitly creates the target of a write.
func (e *Engine) ensureCollection(name string) error {
	_, err := e.CreateCollection(name)
	return err
}
