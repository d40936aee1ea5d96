package store

import (
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
	"github.com/clix-dev-llc/bedquilt-core/internal/match"
)

var (
	rootBucket   = []byte("collections")
	docsBucket   = []byte("docs")
	checksBucket = []byte("checks")
)

// Bolt stores collections in a bbolt file: one sub-bucket per collection
// under the root bucket, each holding "docs" and "checks" sub-buckets.
// Containment predicates run in-process during cursor scans; bbolt's
// serialized update transactions provide the atomicity the engine expects.
type Bolt struct {
	db     *bbolt.DB
	logger *zap.SugaredLogger
}

// OpenBolt creates or opens a bbolt-backed store at path.
func OpenBolt(path string, logger *zap.SugaredLogger) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize bolt database: %w", err)
	}
	logger.Debugw("opened bolt store", "path", path)
	return &Bolt{db: db, logger: logger}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

// collection returns the collection bucket within a transaction, or nil.
func collection(tx *bbolt.Tx, name string) *bbolt.Bucket {
	root := tx.Bucket(rootBucket)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(name))
}

func (b *Bolt) ExistsCollection(name string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		exists = collection(tx, name) != nil
		return nil
	})
	return exists, err
}

func (b *Bolt) CreateCollectionIfAbsent(name string) (bool, error) {
	var created bool
	err := b.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		if root.Bucket([]byte(name)) != nil {
			return nil
		}
		coll, err := root.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		if _, err := coll.CreateBucket(docsBucket); err != nil {
			return err
		}
		if _, err := coll.CreateBucket(checksBucket); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("create collection %q: %w", name, err)
	}
	if created {
		b.logger.Debugw("created collection", "collection", name)
	}
	return created, nil
}

func (b *Bolt) DropCollection(name string) (bool, error) {
	var dropped bool
	err := b.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		if root.Bucket([]byte(name)) == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(name)); err != nil {
			return err
		}
		dropped = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("drop collection %q: %w", name, err)
	}
	if dropped {
		b.logger.Debugw("dropped collection", "collection", name)
	}
	return dropped, nil
}

func (b *Bolt) ListCollections() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(rootBucket).ForEachBucket(func(k []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

func (b *Bolt) Put(collectionName, id string, doc document.Document) error {
	body, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	err = b.db.Update(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return fmt.Errorf("collection %q does not exist", collectionName)
		}
		docs := coll.Bucket(docsBucket)
		if docs.Get([]byte(id)) != nil {
			return fmt.Errorf("collection %q id %q: %w", collectionName, id, ErrDuplicateID)
		}
		return docs.Put([]byte(id), body)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return err
		}
		return fmt.Errorf("put document %q/%q: %w", collectionName, id, err)
	}
	return nil
}

func (b *Bolt) Replace(collectionName, id string, doc document.Document) error {
	body, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	err = b.db.Update(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return fmt.Errorf("collection %q does not exist", collectionName)
		}
		return coll.Bucket(docsBucket).Put([]byte(id), body)
	})
	if err != nil {
		return fmt.Errorf("replace document %q/%q: %w", collectionName, id, err)
	}
	return nil
}

func (b *Bolt) Get(collectionName, id string) (document.Document, error) {
	var body []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return nil
		}
		if v := coll.Bucket(docsBucket).Get([]byte(id)); v != nil {
			body = make([]byte, len(v))
			copy(body, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get document %q/%q: %w", collectionName, id, err)
	}
	if body == nil {
		return nil, nil
	}
	return document.Unmarshal(body)
}

func (b *Bolt) ScanMatching(collectionName string, query document.Document) ([]document.Document, error) {
	var docs []document.Document
	err := b.db.View(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return nil
		}
		// bbolt cursors iterate in byte order, which is the same ascending
		// id order the sqlite backend produces.
		return coll.Bucket(docsBucket).ForEach(func(k, v []byte) error {
			doc, err := document.Unmarshal(v)
			if err != nil {
				return err
			}
			if match.Contains(doc, queryValue(query)) {
				docs = append(docs, doc)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan collection %q: %w", collectionName, err)
	}
	return docs, nil
}

func (b *Bolt) DeleteMatching(collectionName string, query document.Document) ([]document.Document, error) {
	var docs []document.Document
	err := b.db.Update(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return nil
		}
		bucket := coll.Bucket(docsBucket)
		var ids [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			doc, err := document.Unmarshal(v)
			if err != nil {
				return err
			}
			if match.Contains(doc, queryValue(query)) {
				id := make([]byte, len(k))
				copy(id, k)
				ids = append(ids, id)
				docs = append(docs, doc)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := bucket.Delete(id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete from collection %q: %w", collectionName, err)
	}
	return docs, nil
}

func (b *Bolt) AddCheck(collectionName, name string, rule []byte) (bool, error) {
	var added bool
	err := b.db.Update(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return fmt.Errorf("collection %q does not exist", collectionName)
		}
		checks := coll.Bucket(checksBucket)
		if checks.Get([]byte(name)) != nil {
			return nil
		}
		added = true
		return checks.Put([]byte(name), rule)
	})
	if err != nil {
		return false, fmt.Errorf("add check %q on %q: %w", name, collectionName, err)
	}
	return added, nil
}

func (b *Bolt) DropCheck(collectionName, name string) (bool, error) {
	var dropped bool
	err := b.db.Update(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return nil
		}
		checks := coll.Bucket(checksBucket)
		if checks.Get([]byte(name)) == nil {
			return nil
		}
		dropped = true
		return checks.Delete([]byte(name))
	})
	if err != nil {
		return false, fmt.Errorf("drop check %q on %q: %w", name, collectionName, err)
	}
	return dropped, nil
}

func (b *Bolt) ListChecks(collectionName string) ([]NamedRule, error) {
	var checks []NamedRule
	err := b.db.View(func(tx *bbolt.Tx) error {
		coll := collection(tx, collectionName)
		if coll == nil {
			return nil
		}
		return coll.Bucket(checksBucket).ForEach(func(k, v []byte) error {
			rule := make([]byte, len(v))
			copy(rule, v)
			checks = append(checks, NamedRule{Name: string(k), Rule: rule})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list checks on %q: %w", collectionName, err)
	}
	return checks, nil
}

// queryValue converts a query document to the any-typed value the matcher
// takes, treating nil as match-everything.
func queryValue(query document.Document) any {
	if query == nil {
		return map[string]any{}
	}
	return map[string]any(query)
}
