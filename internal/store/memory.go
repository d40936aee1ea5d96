package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
	"github.com/clix-dev-llc/bedquilt-core/internal/match"
)

// Memory keeps everything in process memory. Data is lost on close; intended
// for tests and embedded throwaway use. Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	docs   map[string]document.Document
	checks map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) ExistsCollection(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[name]
	return ok, nil
}

func (m *Memory) CreateCollectionIfAbsent(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; ok {
		return false, nil
	}
	m.collections[name] = &memCollection{
		docs:   make(map[string]document.Document),
		checks: make(map[string][]byte),
	}
	return true, nil
}

func (m *Memory) DropCollection(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		return false, nil
	}
	delete(m.collections, name)
	return true, nil
}

func (m *Memory) ListCollections() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Put(collection, id string, doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q does not exist", collection)
	}
	if _, taken := coll.docs[id]; taken {
		return fmt.Errorf("collection %q id %q: %w", collection, id, ErrDuplicateID)
	}
	coll.docs[id] = doc.Clone()
	return nil
}

func (m *Memory) Replace(collection, id string, doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return fmt.Errorf("collection %q does not exist", collection)
	}
	coll.docs[id] = doc.Clone()
	return nil
}

func (m *Memory) Get(collection, id string) (document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	doc, ok := coll.docs[id]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (m *Memory) ScanMatching(collection string, query document.Document) ([]document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	var docs []document.Document
	for _, id := range sortedIDs(coll.docs) {
		doc := coll.docs[id]
		if match.Contains(doc, queryValue(query)) {
			docs = append(docs, doc.Clone())
		}
	}
	return docs, nil
}

func (m *Memory) DeleteMatching(collection string, query document.Document) ([]document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	var docs []document.Document
	for _, id := range sortedIDs(coll.docs) {
		doc := coll.docs[id]
		if match.Contains(doc, queryValue(query)) {
			docs = append(docs, doc.Clone())
			delete(coll.docs, id)
		}
	}
	return docs, nil
}

func (m *Memory) AddCheck(collection, name string, rule []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return false, fmt.Errorf("collection %q does not exist", collection)
	}
	if _, present := coll.checks[name]; present {
		return false, nil
	}
	stored := make([]byte, len(rule))
	copy(stored, rule)
	coll.checks[name] = stored
	return true, nil
}

func (m *Memory) DropCheck(collection, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		return false, nil
	}
	if _, present := coll.checks[name]; !present {
		return false, nil
	}
	delete(coll.checks, name)
	return true, nil
}

func (m *Memory) ListChecks(collection string) ([]NamedRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	names := make([]string, 0, len(coll.checks))
	for name := range coll.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]NamedRule, 0, len(names))
	for _, name := range names {
		rule := coll.checks[name]
		stored := make([]byte, len(rule))
		copy(stored, rule)
		checks = append(checks, NamedRule{Name: name, Rule: stored})
	}
	return checks, nil
}

func sortedIDs(docs map[string]document.Document) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
