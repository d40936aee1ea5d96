package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clix-dev-llc/bedquilt-core/internal/docid"
	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

func TestInsert_GeneratesID(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.Insert("users", document.Document{"name": "Ann"})
	require.NoError(t, err)
	assert.Len(t, id, docid.Length)

	doc, err := e.FindOneByID("users", id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Ann", doc["name"])
	assert.Equal(t, id, doc[document.IDField])
}

func TestInsert_DoesNotMutateCallerDocument(t *testing.T) {
	e := newTestEngine(t)

	doc := document.Document{"name": "Ann"}
	_, err := e.Insert("users", doc)
	require.NoError(t, err)
	_, present := doc[document.IDField]
	assert.False(t, present, "caller document must not gain an _id")
}

func TestInsert_KeepsProvidedID(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.Insert("users", document.Document{"_id": "ann", "name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann", id)
}

func TestInsert_NonStringIDRejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Insert("users", document.Document{"_id": float64(7)})
	assert.True(t, IsInvalidInput(err))
	assert.ErrorContains(t, err, "_id must be a string")
}

func TestInsert_DuplicateIDConflicts(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Insert("users", document.Document{"_id": "x", "n": float64(1)})
	require.NoError(t, err)

	_, err = e.Insert("users", document.Document{"_id": "x", "n": float64(2)})
	assert.True(t, IsConflict(err))

	// The first document is untouched and remains the only one.
	docs, err := e.Find("users", document.Document{"_id": "x"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, float64(1), docs[0]["n"])
}

func TestInsert_ImplicitlyCreatesCollection(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Insert("fresh", document.Document{"a": float64(1)})
	require.NoError(t, err)

	exists, err := e.CollectionExists("fresh")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSave_Upserts(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.Save("users", document.Document{"_id": "x", "a": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, "x", id)

	id, err = e.Save("users", document.Document{"_id": "x", "a": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, "x", id)

	docs, err := e.Find("users", nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, float64(2), docs[0]["a"])
}

func TestSave_ReplacesFullContent(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Save("users", document.Document{"_id": "x", "a": float64(1), "b": float64(2)})
	require.NoError(t, err)
	_, err = e.Save("users", document.Document{"_id": "x", "c": float64(3)})
	require.NoError(t, err)

	doc, err := e.FindOneByID("users", "x")
	require.NoError(t, err)
	_, hasA := doc["a"]
	assert.False(t, hasA, "replacement removes fields absent from the new content")
	assert.Equal(t, float64(3), doc["c"])
}

func TestSave_WithoutIDInserts(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.Save("users", document.Document{"name": "Ann"})
	require.NoError(t, err)
	assert.Len(t, id, docid.Length)
}

func TestSave_NonStringIDRejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Save("users", document.Document{"_id": true})
	assert.True(t, IsInvalidInput(err))
}

func TestFind_MissingCollectionIsEmpty(t *testing.T) {
	e := newTestEngine(t)

	docs, err := e.Find("ghost", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)

	doc, err := e.FindOne("ghost", nil)
	require.NoError(t, err)
	assert.Nil(t, doc)

	doc, err = e.FindOneByID("ghost", "x")
	require.NoError(t, err)
	assert.Nil(t, doc)

	n, err := e.Count("ghost", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFind_ByContainment(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Insert("users", document.Document{"_id": "a", "city": "Oslo", "age": float64(30)})
	require.NoError(t, err)
	_, err = e.Insert("users", document.Document{"_id": "b", "city": "Oslo", "age": float64(40)})
	require.NoError(t, err)
	_, err = e.Insert("users", document.Document{"_id": "c", "city": "Bergen", "age": float64(30)})
	require.NoError(t, err)

	docs, err := e.Find("users", document.Document{"city": "Oslo"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0][document.IDField], "ascending id order")
	assert.Equal(t, "b", docs[1][document.IDField])

	n, err := e.Count("users", document.Document{"age": float64(30)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	doc, err := e.FindOne("users", document.Document{"city": "Bergen"})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "c", doc[document.IDField])
}

func TestRemove(t *testing.T) {
	e := newTestEngine(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := e.Insert("users", document.Document{"_id": id, "keep": id == "c"})
		require.NoError(t, err)
	}

	n, err := e.Remove("users", document.Document{"keep": false})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := e.Count("users", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRemoveOne_RemovesExactlyOne(t *testing.T) {
	e := newTestEngine(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := e.Insert("users", document.Document{"_id": id, "dup": true})
		require.NoError(t, err)
	}

	n, err := e.RemoveOne("users", document.Document{"dup": true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := e.Count("users", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	n, err = e.RemoveOne("users", document.Document{"dup": false})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemove_MissingCollectionIsZero(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.Remove("ghost", document.Document{"a": float64(1)})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.RemoveOne("ghost", document.Document{"a": float64(1)})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.RemoveOneByID("ghost", "x")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScenario_UsersLifecycle(t *testing.T) {
	e := newTestEngine(t)

	id, err := e.Insert("users", document.Document{"name": "Ann"})
	require.NoError(t, err)
	assert.Len(t, id, 24)

	doc, err := e.FindOne("users", document.Document{"name": "Ann"})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, id, doc[document.IDField])
	assert.Equal(t, "Ann", doc["name"])

	n, err := e.Count("users", document.Document{"name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err := e.RemoveOneByID("users", id)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	docs, err := e.Find("users", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
