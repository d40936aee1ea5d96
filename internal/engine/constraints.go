package engine

import (
	"strings"

	"github.com/clix-dev-llc/bedquilt-core/internal/constraint"
	"github.com/clix-dev-llc/bedquilt-core/internal/document"
)

// AddConstraints registers the rules described by spec on the collection,
// creating the collection if needed. Returns true iff at least one rule was
// newly added; re-adding an identical rule is a no-op.
//
// A $type rule conflicting with a different $type rule already active on the
// same field is a conflict error: contradictory type constraints never
// coexist, the caller must remove the existing one first.
//
// Adding a rule does not re-validate documents already stored in the
// collection; only future writes are checked.
func (e *Engine) AddConstraints(collection string, spec document.Document) (bool, error) {
	rules, err := constraint.ParseSpec(spec)
	if err != nil {
		return false, invalidInput(collection, "", "%v", err)
	}
	if err := e.ensureCollection(collection); err != nil {
		return false, err
	}

	active, err := e.ListConstraints(collection)
	if err != nil {
		return false, err
	}
	typeByField := make(map[string]document.Kind)
	for _, r := range active {
		if r.Kind == constraint.TypeIs {
			typeByField[r.Field] = r.Type
		}
	}

	added := false
	for _, r := range rules {
		if r.Kind == constraint.TypeIs {
			if declared, ok := typeByField[r.Field]; ok && declared != r.Type {
				return added, conflict(collection, r.Field,
					"field already has a type constraint (%s); remove it before declaring %s", declared, r.Type)
			}
			typeByField[r.Field] = r.Type
		}
		encoded, err := constraint.Encode(r)
		if err != nil {
			return added, storeFailure(collection, err)
		}
		ok, err := e.store.AddCheck(collection, r.Name(), encoded)
		if err != nil {
			return added, storeFailure(collection, err)
		}
		if ok {
			e.logger.Infow("added constraint", "collection", collection, "constraint", r.Name())
			added = true
		}
	}
	return added, nil
}

// RemoveConstraints drops the rules described by spec. Returns true iff at
// least one rule existed and was removed; absent rules are no-ops, as is a
// collection that does not exist.
func (e *Engine) RemoveConstraints(collection string, spec document.Document) (bool, error) {
	rules, err := constraint.ParseSpec(spec)
	if err != nil {
		return false, invalidInput(collection, "", "%v", err)
	}
	removed := false
	for _, r := range rules {
		ok, err := e.store.DropCheck(collection, r.Name())
		if err != nil {
			return removed, storeFailure(collection, err)
		}
		if ok {
			e.logger.Infow("removed constraint", "collection", collection, "constraint", r.Name())
			removed = true
		}
	}
	return removed, nil
}

// ListConstraints enumerates the active rules on the collection, ordered by
// constraint name. Empty for a collection that does not exist.
func (e *Engine) ListConstraints(collection string) ([]constraint.Rule, error) {
	checks, err := e.store.ListChecks(collection)
	if err != nil {
		return nil, storeFailure(collection, err)
	}
	rules := make([]constraint.Rule, 0, len(checks))
	for _, check := range checks {
		r, err := constraint.Decode(check.Rule)
		if err != nil {
			return nil, storeFailure(collection, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// validateDocument runs every active constraint against doc. Any violation
// rejects the enclosing write in full; nothing is mutated here.
func (e *Engine) validateDocument(collection string, doc document.Document) error {
	rules, err := e.ListConstraints(collection)
	if err != nil {
		return err
	}
	violations := constraint.Validate(rules, doc)
	if len(violations) == 0 {
		return nil
	}
	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.String()
	}
	return &Error{
		Code:       CodeConstraintViolation,
		Message:    strings.Join(messages, "; "),
		Collection: collection,
		Field:      violations[0].Rule.Field,
		Constraint: violations[0].Rule.Name(),
	}
}
