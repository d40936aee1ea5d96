package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
	"github.com/clix-dev-llc/bedquilt-core/internal/match"
)

//go:embed schema.sql
var schemaSQL string

// driverName registers a sqlite3 driver whose connections carry the
// containment predicate as the SQL function bq_contains(body, query). Every
// scan and delete pushes its predicate down through that function, so the
// store-side operator and the in-process matcher are the same code.
const driverName = "sqlite3_bedquilt"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("bq_contains", sqlContains, true)
		},
	})
}

// sqlContains adapts match.Contains to SQL argument types.
func sqlContains(body, query string) (bool, error) {
	doc, err := document.Unmarshal([]byte(body))
	if err != nil {
		return false, fmt.Errorf("bq_contains: bad document body: %w", err)
	}
	var q any
	if err := gojson.Unmarshal([]byte(query), &q); err != nil {
		return false, fmt.Errorf("bq_contains: bad query: %w", err)
	}
	return match.Contains(doc, q), nil
}

// SQLite is the default durable backend: one database file holding every
// collection.
type SQLite struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// OpenSQLite creates or opens a bedquilt database at path.
//
// The connection is configured with WAL mode, NORMAL synchronous, a busy
// timeout for lock contention, and foreign key enforcement (drops cascade
// through it). SQLite allows one writer at a time, so the pool is pinned to
// a single connection. Idempotent: safe to call on an existing database.
func OpenSQLite(path string, logger *zap.SugaredLogger) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Debugw("opened sqlite store", "path", path)
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ExistsCollection(name string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM collections WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check collection %q: %w", name, err)
	}
	return true, nil
}

func (s *SQLite) CreateCollectionIfAbsent(name string) (bool, error) {
	// Single atomic statement: concurrent creators race here, exactly one
	// inserts, the rest no-op.
	res, err := s.db.Exec(
		"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return false, fmt.Errorf("create collection %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create collection %q: %w", name, err)
	}
	if n > 0 {
		s.logger.Debugw("created collection", "collection", name)
	}
	return n > 0, nil
}

func (s *SQLite) DropCollection(name string) (bool, error) {
	// Documents and checks cascade off the collection row; deleting it is
	// the whole drop in one statement.
	res, err := s.db.Exec("DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("drop collection %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("drop collection %q: %w", name, err)
	}
	if n > 0 {
		s.logger.Debugw("dropped collection", "collection", name)
	}
	return n > 0, nil
}

func (s *SQLite) ListCollections() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLite) Put(collection, id string, doc document.Document) error {
	body, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)",
		collection, id, string(body))
	if err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) &&
			(serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				serr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return fmt.Errorf("collection %q id %q: %w", collection, id, ErrDuplicateID)
		}
		return fmt.Errorf("put document %q/%q: %w", collection, id, err)
	}
	return nil
}

func (s *SQLite) Replace(collection, id string, doc document.Document) error {
	body, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET body = excluded.body
	`, collection, id, string(body))
	if err != nil {
		return fmt.Errorf("replace document %q/%q: %w", collection, id, err)
	}
	return nil
}

func (s *SQLite) Get(collection, id string) (document.Document, error) {
	var body string
	err := s.db.QueryRow(
		"SELECT body FROM documents WHERE collection = ? AND id = ?",
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q/%q: %w", collection, id, err)
	}
	return document.Unmarshal([]byte(body))
}

func (s *SQLite) ScanMatching(collection string, query document.Document) ([]document.Document, error) {
	q, err := marshalQuery(query)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
		SELECT body FROM documents
		WHERE collection = ? AND bq_contains(body, ?)
		ORDER BY id
	`, collection, q)
	if err != nil {
		return nil, fmt.Errorf("scan collection %q: %w", collection, err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan collection %q: %w", collection, err)
		}
		doc, err := document.Unmarshal([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("scan collection %q: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLite) DeleteMatching(collection string, query document.Document) ([]document.Document, error) {
	q, err := marshalQuery(query)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id, body FROM documents
		WHERE collection = ? AND bq_contains(body, ?)
		ORDER BY id
	`, collection, q)
	if err != nil {
		return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
	}

	var ids []string
	var docs []document.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			rows.Close()
			return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
		}
		doc, err := document.Unmarshal([]byte(body))
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
		}
		ids = append(ids, id)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
	}
	rows.Close()

	for _, id := range ids {
		if _, err := tx.Exec(
			"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id); err != nil {
			return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete from collection %q: %w", collection, err)
	}
	return docs, nil
}

func (s *SQLite) AddCheck(collection, name string, rule []byte) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO checks (collection, name, rule) VALUES (?, ?, ?)
		ON CONFLICT(collection, name) DO NOTHING
	`, collection, name, string(rule))
	if err != nil {
		return false, fmt.Errorf("add check %q on %q: %w", name, collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add check %q on %q: %w", name, collection, err)
	}
	return n > 0, nil
}

func (s *SQLite) DropCheck(collection, name string) (bool, error) {
	res, err := s.db.Exec(
		"DELETE FROM checks WHERE collection = ? AND name = ?", collection, name)
	if err != nil {
		return false, fmt.Errorf("drop check %q on %q: %w", name, collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("drop check %q on %q: %w", name, collection, err)
	}
	return n > 0, nil
}

func (s *SQLite) ListChecks(collection string) ([]NamedRule, error) {
	rows, err := s.db.Query(
		"SELECT name, rule FROM checks WHERE collection = ? ORDER BY name", collection)
	if err != nil {
		return nil, fmt.Errorf("list checks on %q: %w", collection, err)
	}
	defer rows.Close()

	var checks []NamedRule
	for rows.Next() {
		var name, rule string
		if err := rows.Scan(&name, &rule); err != nil {
			return nil, fmt.Errorf("list checks on %q: %w", collection, err)
		}
		checks = append(checks, NamedRule{Name: name, Rule: []byte(rule)})
	}
	return checks, rows.Err()
}

// marshalQuery encodes a containment query for the bq_contains parameter.
// A nil query matches everything, same as the empty object.
func marshalQuery(query document.Document) (string, error) {
	if query == nil {
		return "{}", nil
	}
	data, err := gojson.Marshal(map[string]any(query))
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}
	return string(data), nil
}
