package cli

import (
	"bytes"
	"errors"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bedquilt "github.com/clix-dev-llc/bedquilt-core"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "op", errors.New("cause"))))
}

func TestExitError_Message(t *testing.T) {
	err := WrapExitError(ExitCommandError, "open database", errors.New("locked"))
	assert.Equal(t, "open database: locked", err.Error())
	assert.Equal(t, "locked", errors.Unwrap(err).Error())

	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())
}

func TestOutputFormatter_TextDocuments(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.EmitDocuments([]bedquilt.Document{
		{"_id": "a", "z": float64(1), "b": "x"},
		{"_id": "b", "ok": true},
	})
	require.NoError(t, err)

	// Canonical form: one document per line, keys sorted.
	assert.Equal(t, "{\"_id\":\"a\",\"b\":\"x\",\"z\":1}\n{\"_id\":\"b\",\"ok\":true}\n", buf.String())
}

func TestOutputFormatter_TextNilDocument(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.EmitDocument(nil))
	assert.Empty(t, buf.String())
}

func TestOutputFormatter_JSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.EmitValue(int64(3)))

	var resp CLIResponse
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(3), resp.Data)

	_, err := uuid.Parse(resp.TraceID)
	assert.NoError(t, err, "trace id should be a valid UUID")
}

func TestOutputFormatter_JSONEmptyStrings(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.EmitStrings(nil))

	var resp CLIResponse
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &resp))
	// A nil name list still renders as an empty array, not null.
	assert.Equal(t, []any{}, resp.Data)
}

func TestOutputFormatter_TextStrings(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.EmitStrings([]string{"admins", "users"}))
	assert.Equal(t, "admins\nusers\n", buf.String())
}
