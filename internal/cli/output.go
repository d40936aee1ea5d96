package cli

import (
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	bedquilt "github.com/clix-dev-llc/bedquilt-core"
	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // operation failed (conflict, violation, bad input)
	ExitCommandError = 2 // command error (bad flags, unreadable db/config)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors without one exit
// as operation failures.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON response envelope.
type CLIResponse struct {
	Status  string `json:"status"`             // "ok"
	Data    any    `json:"data"`               // operation result
	TraceID string `json:"trace_id,omitempty"` // correlation id
}

// OutputFormatter renders command results as text or JSON.
//
// Text mode prints documents in canonical JSON (sorted keys, NFC strings),
// one per line, so output is deterministic for identical content. JSON mode
// wraps the result in a CLIResponse with a fresh trace id.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// EmitDocuments renders a result set.
func (f *OutputFormatter) EmitDocuments(docs []bedquilt.Document) error {
	if f.Format == "json" {
		return f.emitJSON(docs)
	}
	for _, doc := range docs {
		if err := f.emitCanonical(doc); err != nil {
			return err
		}
	}
	return nil
}

// EmitDocument renders a single optional document; nil renders nothing in
// text mode and a null data field in JSON mode.
func (f *OutputFormatter) EmitDocument(doc bedquilt.Document) error {
	if f.Format == "json" {
		if doc == nil {
			return f.emitJSON(nil)
		}
		return f.emitJSON(doc)
	}
	if doc == nil {
		return nil
	}
	return f.emitCanonical(doc)
}

// EmitValue renders a scalar result: an id, a count, a boolean.
func (f *OutputFormatter) EmitValue(v any) error {
	if f.Format == "json" {
		return f.emitJSON(v)
	}
	_, err := fmt.Fprintln(f.Writer, v)
	return err
}

// EmitStrings renders a list of names, one per line in text mode.
func (f *OutputFormatter) EmitStrings(names []string) error {
	if f.Format == "json" {
		if names == nil {
			names = []string{}
		}
		return f.emitJSON(names)
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(f.Writer, name); err != nil {
			return err
		}
	}
	return nil
}

func (f *OutputFormatter) emitCanonical(doc bedquilt.Document) error {
	data, err := document.MarshalCanonical(doc)
	if err != nil {
		return WrapExitError(ExitCommandError, "render document", err)
	}
	_, err = fmt.Fprintf(f.Writer, "%s\n", data)
	return err
}

func (f *OutputFormatter) emitJSON(data any) error {
	resp := CLIResponse{Status: "ok", Data: data, TraceID: uuid.NewString()}
	out, err := gojson.Marshal(resp)
	if err != nil {
		return WrapExitError(ExitCommandError, "render response", err)
	}
	_, err = fmt.Fprintf(f.Writer, "%s\n", out)
	return err
}
