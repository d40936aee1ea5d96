package constraint

import (
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

// Kind tags the rule variant bound to a field.
type Kind string

const (
	// Required demands the field key be present at the document top level.
	Required Kind = "required"
	// NotNull demands the field be present with a non-null value.
	NotNull Kind = "notnull"
	// TypeIs demands the field value, when present, have the declared JSON
	// type or be null.
	TypeIs Kind = "type"
)

// Spec-document tokens naming each rule kind.
const (
	TokenRequired = "$required"
	TokenNotNull  = "$notnull"
	TokenType     = "$type"
)

// Rule is one schema rule bound to one field of one collection.
type Rule struct {
	Field string        `json:"field"`
	Kind  Kind          `json:"kind"`
	Type  document.Kind `json:"type,omitempty"` // set only when Kind == TypeIs
}

// Name returns the deterministic constraint name derived from the rule:
// "age:required", "age:notnull", "age:type:number". Re-adding a rule with an
// identical name is how idempotency is detected, and two TypeIs rules on the
// same field are recognized as conflicting by sharing the "field:type:"
// prefix regardless of the declared type.
func (r Rule) Name() string {
	if r.Kind == TypeIs {
		return fmt.Sprintf("%s:%s:%s", r.Field, r.Kind, r.Type)
	}
	return fmt.Sprintf("%s:%s", r.Field, r.Kind)
}

// Encode serializes a rule for structural storage alongside its name.
func Encode(r Rule) ([]byte, error) {
	data, err := gojson.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode constraint rule: %w", err)
	}
	return data, nil
}

// Decode restores a rule persisted by Encode.
func Decode(data []byte) (Rule, error) {
	var r Rule
	if err := gojson.Unmarshal(data, &r); err != nil {
		return Rule{}, fmt.Errorf("decode constraint rule: %w", err)
	}
	return r, nil
}

// ParseSpec expands a constraint spec document into rules. The spec shape is
// field name -> { rule token -> argument }, for example:
//
//	{"name": {"$required": 1, "$type": "string"}, "age": {"$notnull": 1}}
//
// The argument is ignored for $required and $notnull. For $type it must be
// one of the declarable JSON type names. Rules come back sorted by name so
// spec iteration order never leaks into observable behavior.
func ParseSpec(spec document.Document) ([]Rule, error) {
	rules := make([]Rule, 0, len(spec))
	for field, raw := range spec {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("constraint spec for field %q must be an object, got %s", field, document.KindOf(raw))
		}
		for token, arg := range entry {
			switch token {
			case TokenRequired:
				rules = append(rules, Rule{Field: field, Kind: Required})
			case TokenNotNull:
				rules = append(rules, Rule{Field: field, Kind: NotNull})
			case TokenType:
				name, ok := arg.(string)
				if !ok {
					return nil, fmt.Errorf("$type argument for field %q must be a string, got %s", field, document.KindOf(arg))
				}
				if !document.Declarable(name) {
					return nil, fmt.Errorf("invalid $type %q for field %q: must be one of string, number, object, array, boolean", name, field)
				}
				rules = append(rules, Rule{Field: field, Kind: TypeIs, Type: document.Kind(name)})
			default:
				return nil, fmt.Errorf("unknown constraint token %q for field %q", token, field)
			}
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name() < rules[j].Name() })
	return rules, nil
}
