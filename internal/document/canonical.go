package document

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a deterministic JSON encoding of a document or
// any JSON-typed value: object keys sorted lexicographically, strings NFC
// normalized, no HTML escaping, no insignificant whitespace. Two documents
// with the same content always canonicalize to the same bytes, which is what
// the CLI text output and document equality rely on.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		return writeCanonicalString(buf, val)
	case float64:
		return writeCanonicalFloat(buf, val)
	case float32:
		return writeCanonicalFloat(buf, float64(val))
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case Document:
		return writeCanonicalObject(buf, map[string]any(val))
	case map[string]any:
		return writeCanonicalObject(buf, val)
	case []any:
		return writeCanonicalArray(buf, val)
	default:
		return fmt.Errorf("value of type %T has no canonical JSON form", v)
	}
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	data, err := gojson.MarshalWithOption(norm.NFC.String(s), gojson.DisableHTMLEscape())
	if err != nil {
		return fmt.Errorf("canonical string: %w", err)
	}
	// goccy appends no trailing newline for Marshal, write as-is.
	buf.Write(data)
	return nil
}

func writeCanonicalFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite number %v has no JSON form", f)
	}
	data, err := gojson.Marshal(f)
	if err != nil {
		return fmt.Errorf("canonical number: %w", err)
	}
	buf.Write(data)
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, elem); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}
