package engine

import (
	"errors"

	"github.com/clix-dev-llc/bedquilt-core/internal/docid"
	"github.com/clix-dev-llc/bedquilt-core/internal/document"
	"github.com/clix-dev-llc/bedquilt-core/internal/store"
)

// Insert stores doc in the collection, creating the collection if needed,
// and returns the document's final _id.
//
// A document without _id gets a generated one. A document with _id must
// carry a string there (input error otherwise) that is not already taken in
// the collection (conflict error otherwise). Active constraints are checked
// before the store mutation; the caller's document is never modified.
func (e *Engine) Insert(collection string, doc document.Document) (string, error) {
	if err := e.ensureCollection(collection); err != nil {
		return "", err
	}

	stored := doc.Clone()
	if stored == nil {
		stored = document.Document{}
	}
	id, err := e.resolveID(collection, stored)
	if err != nil {
		return "", err
	}

	if err := e.validateDocument(collection, stored); err != nil {
		return "", err
	}

	if err := e.store.Put(collection, id, stored); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return "", conflict(collection, document.IDField, "document with _id %q already exists", id)
		}
		return "", storeFailure(collection, err)
	}
	e.logger.Debugw("inserted document", "collection", collection, "id", id)
	return id, nil
}

// Save upserts doc: when its _id already names a stored document, that
// document's content is replaced in full; otherwise Save delegates to
// Insert. Replacement is constraint-validated like any other write.
func (e *Engine) Save(collection string, doc document.Document) (string, error) {
	if err := e.ensureCollection(collection); err != nil {
		return "", err
	}

	raw, present := doc[document.IDField]
	if !present {
		return e.Insert(collection, doc)
	}
	id, ok := raw.(string)
	if !ok {
		return "", invalidInput(collection, document.IDField,
			"_id must be a string, got %s", document.KindOf(raw))
	}

	existing, err := e.store.Get(collection, id)
	if err != nil {
		return "", storeFailure(collection, err)
	}
	if existing == nil {
		return e.Insert(collection, doc)
	}

	stored := doc.Clone()
	if err := e.validateDocument(collection, stored); err != nil {
		return "", err
	}
	if err := e.store.Replace(collection, id, stored); err != nil {
		return "", storeFailure(collection, err)
	}
	e.logger.Debugw("replaced document", "collection", collection, "id", id)
	return id, nil
}

// Find returns every document satisfying the containment query, in
// ascending _id order. Each call re-executes the scan; no cursor state is
// retained. Empty (not an error) when the collection does not exist. A nil
// query matches every document.
func (e *Engine) Find(collection string, query document.Document) ([]document.Document, error) {
	docs, err := e.store.ScanMatching(collection, query)
	if err != nil {
		return nil, storeFailure(collection, err)
	}
	return docs, nil
}

// FindOne returns the first document satisfying the query, or nil.
func (e *Engine) FindOne(collection string, query document.Document) (document.Document, error) {
	docs, err := e.Find(collection, query)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// FindOneByID returns the document stored under id, or nil.
func (e *Engine) FindOneByID(collection, id string) (document.Document, error) {
	doc, err := e.store.Get(collection, id)
	if err != nil {
		return nil, storeFailure(collection, err)
	}
	return doc, nil
}

// Count returns the number of documents satisfying the query; 0 when the
// collection does not exist.
func (e *Engine) Count(collection string, query document.Document) (int, error) {
	docs, err := e.Find(collection, query)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Remove deletes every document satisfying the query and returns how many
// were removed; 0 when the collection does not exist.
func (e *Engine) Remove(collection string, query document.Document) (int, error) {
	removed, err := e.store.DeleteMatching(collection, query)
	if err != nil {
		return 0, storeFailure(collection, err)
	}
	if len(removed) > 0 {
		e.logger.Debugw("removed documents", "collection", collection, "count", len(removed))
	}
	return len(removed), nil
}

// RemoveOne deletes the first document satisfying the query and returns 0 or
// 1. Selection among equally-matching documents is by ascending _id.
func (e *Engine) RemoveOne(collection string, query document.Document) (int, error) {
	first, err := e.FindOne(collection, query)
	if err != nil {
		return 0, err
	}
	if first == nil {
		return 0, nil
	}
	id, _ := first[document.IDField].(string)
	return e.RemoveOneByID(collection, id)
}

// RemoveOneByID deletes the document stored under id and returns 0 or 1.
func (e *Engine) RemoveOneByID(collection, id string) (int, error) {
	removed, err := e.store.DeleteMatching(collection, document.Document{document.IDField: id})
	if err != nil {
		return 0, storeFailure(collection, err)
	}
	if len(removed) > 0 {
		e.logger.Debugw("removed document", "collection", collection, "id", id)
	}
	return len(removed), nil
}

// resolveID settles the _id of a document about to be inserted, generating
// one when absent.
func (e *Engine) resolveID(collection string, doc document.Document) (string, error) {
	if raw, present := doc[document.IDField]; present {
		id, ok := raw.(string)
		if !ok {
			return "", invalidInput(collection, document.IDField,
				"_id must be a string, got %s", document.KindOf(raw))
		}
		return id, nil
	}
	id, err := docid.New()
	if err != nil {
		// A dead randomness source is fatal to the write, like any other
		// environmental failure.
		return "", storeFailure(collection, err)
	}
	doc[document.IDField] = id
	return id, nil
}
