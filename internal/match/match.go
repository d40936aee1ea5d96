package match

import (
	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

// Contains reports whether doc satisfies query under structural containment:
//
//   - Object query: every query key must exist in the document at the same
//     position, with the paired values contained recursively. Extra document
//     keys are ignored; the empty object matches anything object-shaped.
//   - Array query: every query element must be contained in at least one
//     document element. Order and duplicate counts are ignored; the empty
//     array always matches an array.
//   - Scalar query: strict equality, same JSON type and value.
//
// A JSON-type mismatch at any position is a non-match, never an error.
func Contains(doc, query any) bool {
	switch document.KindOf(query) {
	case document.KindObject:
		return containsObject(doc, asObject(query))
	case document.KindArray:
		return containsArray(doc, query.([]any))
	case document.KindNull:
		return document.KindOf(doc) == document.KindNull
	case document.KindString:
		s, ok := doc.(string)
		return ok && s == query.(string)
	case document.KindBoolean:
		b, ok := doc.(bool)
		return ok && b == query.(bool)
	case document.KindNumber:
		if document.KindOf(doc) != document.KindNumber {
			return false
		}
		return asFloat(doc) == asFloat(query)
	default:
		return false
	}
}

func containsObject(doc any, query map[string]any) bool {
	if document.KindOf(doc) != document.KindObject {
		return false
	}
	obj := asObject(doc)
	for key, qval := range query {
		dval, present := obj[key]
		if !present {
			return false
		}
		if !Contains(dval, qval) {
			return false
		}
	}
	return true
}

func containsArray(doc any, query []any) bool {
	arr, ok := doc.([]any)
	if !ok {
		return false
	}
	for _, qelem := range query {
		found := false
		for _, delem := range arr {
			if Contains(delem, qelem) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func asObject(v any) map[string]any {
	switch obj := v.(type) {
	case map[string]any:
		return obj
	case document.Document:
		return map[string]any(obj)
	default:
		return nil
	}
}

// asFloat widens any Go numeric to float64 so that documents decoded from
// JSON (float64) and documents built in Go code (int and friends) compare as
// the same JSON number.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
