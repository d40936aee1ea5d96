package document

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// IDField is the reserved top-level key holding a document's identity.
const IDField = "_id"

// Document is a schema-less JSON document. Keys are field names, values are
// JSON-typed as decoded by goccy/go-json into any.
type Document map[string]any

// Kind identifies the JSON type of a decoded value.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"

	// KindInvalid marks Go values that have no JSON kind.
	KindInvalid Kind = ""
)

// DeclarableKinds are the kinds a $type constraint may name. Null is not
// declarable: every type constraint tolerates null implicitly.
var DeclarableKinds = []Kind{KindString, KindNumber, KindObject, KindArray, KindBoolean}

// Declarable reports whether name is a valid $type argument.
func Declarable(name string) bool {
	for _, k := range DeclarableKinds {
		if string(k) == name {
			return true
		}
	}
	return false
}

// KindOf returns the JSON kind of a decoded value. Integer Go values are
// treated as numbers so that documents built programmatically behave the same
// as documents decoded from JSON text.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case map[string]any, Document:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindInvalid
	}
}

// Marshal encodes a document as JSON.
func Marshal(d Document) ([]byte, error) {
	data, err := gojson.Marshal(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON object into a Document. Non-object JSON is an
// error: only objects are documents.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := gojson.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return d, nil
}

// Clone returns a deep copy of d. Copying goes through the JSON codec so
// nested maps and arrays are never shared with the original.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	data, err := gojson.Marshal(map[string]any(d))
	if err != nil {
		// Documents are JSON-decoded values; this cannot fail for them.
		panic(fmt.Sprintf("clone document: %v", err))
	}
	var out Document
	if err := gojson.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("clone document: %v", err))
	}
	return out
}

// Equal reports whether two documents hold the same content, compared by
// canonical encoding.
func Equal(a, b Document) bool {
	ca, err := MarshalCanonical(a)
	if err != nil {
		return false
	}
	cb, err := MarshalCanonical(b)
	if err != nil {
		return false
	}
	return string(ca) == string(cb)
}
