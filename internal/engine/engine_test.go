package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
	"github.com/clix-dev-llc/bedquilt-core/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(store.NewMemory(), nil)
}

func TestCreateCollection_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	created, err := e.CreateCollection("users")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = e.CreateCollection("users")
	require.NoError(t, err)
	assert.False(t, created, "second create must be a no-op")

	exists, err := e.CollectionExists("users")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateCollection_EmptyNameRejected(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreateCollection("")
	assert.True(t, IsInvalidInput(err))
}

func TestListCollections(t *testing.T) {
	e := newTestEngine(t)
	for _, name := range []string{"users", "orders", "events"} {
		_, err := e.CreateCollection(name)
		require.NoError(t, err)
	}
	names, err := e.ListCollections()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"users", "orders", "events"}, names)
}

func TestDropCollection(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Insert("users", document.Document{"name": "Ann"})
	require.NoError(t, err)
	_, err = e.AddConstraints("users", document.Document{
		"name": map[string]any{"$required": true},
	})
	require.NoError(t, err)

	dropped, err := e.DropCollection("users")
	require.NoError(t, err)
	assert.True(t, dropped)

	exists, err := e.CollectionExists("users")
	require.NoError(t, err)
	assert.False(t, exists)

	// Recreating starts clean: no leftover documents or constraints.
	n, err := e.Count("users", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	rules, err := e.ListConstraints("users")
	require.NoError(t, err)
	assert.Empty(t, rules)

	dropped, err = e.DropCollection("users")
	require.NoError(t, err)
	assert.False(t, dropped, "dropping a missing collection reports false")
}

func TestDropCollection_Missing(t *testing.T) {
	e := newTestEngine(t)
	dropped, err := e.DropCollection("ghost")
	require.NoError(t, err)
	assert.False(t, dropped)
}
