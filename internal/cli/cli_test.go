package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against the database at dbPath and returns
// captured stdout.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli.db")
}

func TestCLI_CollectionLifecycle(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "collection", "create", "users")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = runCLI(t, db, "collection", "create", "users")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	out, err = runCLI(t, db, "collection", "list")
	require.NoError(t, err)
	assert.Equal(t, "users\n", out)

	out, err = runCLI(t, db, "collection", "drop", "users")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = runCLI(t, db, "collection", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_DocumentFlow(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "doc", "insert", "users", `{"_id": "u1", "name": "Ada"}`)
	require.NoError(t, err)
	assert.Equal(t, "u1\n", out)

	_, err = runCLI(t, db, "doc", "insert", "users", `{"_id": "u2", "name": "Grace"}`)
	require.NoError(t, err)

	out, err = runCLI(t, db, "doc", "get", "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "{\"_id\":\"u1\",\"name\":\"Ada\"}\n", out)

	out, err = runCLI(t, db, "doc", "count", "users")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = runCLI(t, db, "doc", "find", "users", `{"name": "Grace"}`)
	require.NoError(t, err)
	assert.Equal(t, "{\"_id\":\"u2\",\"name\":\"Grace\"}\n", out)

	out, err = runCLI(t, db, "doc", "findone", "users", `{"name": "Nobody"}`)
	require.NoError(t, err)
	assert.Empty(t, out, "no match prints nothing in text mode")

	out, err = runCLI(t, db, "doc", "removeid", "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = runCLI(t, db, "doc", "remove", "users", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestCLI_InsertGeneratesID(t *testing.T) {
	out, err := runCLI(t, testDB(t), "doc", "insert", "users", `{"name": "Ada"}`)
	require.NoError(t, err)

	id := strings.TrimSpace(out)
	assert.Len(t, id, 24)
}

func TestCLI_SaveUpserts(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "doc", "save", "users", `{"_id": "u1", "n": 1}`)
	require.NoError(t, err)
	assert.Equal(t, "u1\n", out)

	_, err = runCLI(t, db, "doc", "save", "users", `{"_id": "u1", "n": 2}`)
	require.NoError(t, err)

	out, err = runCLI(t, db, "doc", "get", "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "{\"_id\":\"u1\",\"n\":2}\n", out)
}

func TestCLI_DuplicateIDFailsWithOperationExitCode(t *testing.T) {
	db := testDB(t)

	_, err := runCLI(t, db, "doc", "insert", "users", `{"_id": "u1"}`)
	require.NoError(t, err)

	_, err = runCLI(t, db, "doc", "insert", "users", `{"_id": "u1"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCLI_ConstraintEnforcement(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "constraint", "add", "users",
		`{"name": {"$required": 1, "$type": "string"}}`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	// Same spec again is a no-op.
	out, err = runCLI(t, db, "constraint", "add", "users",
		`{"name": {"$required": 1, "$type": "string"}}`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = runCLI(t, db, "doc", "insert", "users", `{"age": 40}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "required")

	_, err = runCLI(t, db, "doc", "insert", "users", `{"name": "Ada"}`)
	require.NoError(t, err)

	out, err = runCLI(t, db, "constraint", "remove", "users", `{"name": {"$required": 1}}`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = runCLI(t, db, "constraint", "list", "users")
	require.NoError(t, err)
	assert.Equal(t, "name:type:string\n", out)
}

func TestCLI_InvalidFormatFlag(t *testing.T) {
	_, err := runCLI(t, testDB(t), "--format", "xml", "collection", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCLI_BadJSONArgument(t *testing.T) {
	_, err := runCLI(t, testDB(t), "doc", "insert", "users", `{not json`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCLI_JSONFormat(t *testing.T) {
	db := testDB(t)

	_, err := runCLI(t, db, "collection", "create", "users")
	require.NoError(t, err)

	out, err := runCLI(t, db, "--format", "json", "collection", "list")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, gojson.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []any{"users"}, resp.Data)
	assert.NotEmpty(t, resp.TraceID)
}

func TestCLI_MemoryBackend(t *testing.T) {
	// Each invocation opens a fresh in-memory store, so reads see nothing.
	out, err := runCLI(t, "", "--backend", "memory", "collection", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_BoltBackend(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.bolt")

	_, err := runCLI(t, db, "--backend", "bolt", "doc", "insert", "users", `{"_id": "u1"}`)
	require.NoError(t, err)

	out, err := runCLI(t, db, "--backend", "bolt", "doc", "get", "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "{\"_id\":\"u1\"}\n", out)
}
