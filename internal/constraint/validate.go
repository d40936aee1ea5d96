package constraint

import (
	"fmt"

	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

// Violation describes one rule a document failed.
type Violation struct {
	Rule Rule
	// Got is the JSON kind the offending field actually had, or KindInvalid
	// when the field was absent.
	Got document.Kind
}

func (v Violation) String() string {
	switch v.Rule.Kind {
	case Required:
		return fmt.Sprintf("field %q is required", v.Rule.Field)
	case NotNull:
		if v.Got == document.KindNull {
			return fmt.Sprintf("field %q must not be null", v.Rule.Field)
		}
		return fmt.Sprintf("field %q must be present and not null", v.Rule.Field)
	case TypeIs:
		return fmt.Sprintf("field %q must have type %s, got %s", v.Rule.Field, v.Rule.Type, v.Got)
	default:
		return fmt.Sprintf("field %q violates %s constraint", v.Rule.Field, v.Rule.Kind)
	}
}

// Validate evaluates every rule against doc and returns all violations.
// Evaluation is all-or-nothing for the caller: any violation must reject the
// enclosing write in full.
func Validate(rules []Rule, doc document.Document) []Violation {
	var violations []Violation
	for _, r := range rules {
		value, present := doc[r.Field]
		switch r.Kind {
		case Required:
			if !present {
				violations = append(violations, Violation{Rule: r})
			}
		case NotNull:
			if !present {
				violations = append(violations, Violation{Rule: r})
			} else if document.KindOf(value) == document.KindNull {
				violations = append(violations, Violation{Rule: r, Got: document.KindNull})
			}
		case TypeIs:
			if !present {
				continue
			}
			got := document.KindOf(value)
			if got != r.Type && got != document.KindNull {
				violations = append(violations, Violation{Rule: r, Got: got})
			}
		}
	}
	return violations
}
