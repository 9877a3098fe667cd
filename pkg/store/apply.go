package store

import (
	"fmt"
	"sort"

	"github.com/diwise/tenant-store/pkg/document"
)

// ApplyUpdate returns a copy of doc with the update operators applied.
// $setOnInsert is only honoured when inserting is set.
func ApplyUpdate(doc document.Document, update document.Update, inserting bool) (document.Document, error) {
	result := doc.Clone()
	if result == nil {
		result = document.Document{}
	}

	for _, op := range sortedKeys(update) {
		if !document.IsOperator(op) {
			return nil, NewInvalidUpdateError(fmt.Sprintf("update field %q is not an operator", op))
		}

		operand, ok := document.AsMap(update[op])
		if !ok {
			return nil, NewInvalidUpdateError(fmt.Sprintf("operand of %s must be an object", op))
		}

		for _, path := range sortedKeys(operand) {
			if err := applyOperator(result, op, path, operand[path], inserting); err != nil {
				return nil, err
			}
		}
	}

	if !document.Equal(result.ID(), doc.ID()) && doc.ID() != nil {
		return nil, NewInvalidUpdateError("the field _id is immutable")
	}

	return result, nil
}

func applyOperator(doc document.Document, op, path string, value any, inserting bool) error {
	switch op {
	case document.OpSetOnInsert:
		if !inserting {
			return nil
		}
		fallthrough
	case document.OpSet:
		if !document.SetPath(doc, path, document.Clone(value)) {
			return NewInvalidUpdateError(fmt.Sprintf("cannot create field %s", path))
		}
	case document.OpUnset:
		document.UnsetPath(doc, path)
	case document.OpInc:
		current, exists := document.Lookup(doc, path)
		if !exists || current == nil {
			current = int64(0)
		}
		sum, err := add(current, value)
		if err != nil {
			return NewInvalidUpdateError(fmt.Sprintf("cannot increment %s: %s", path, err.Error()))
		}
		document.SetPath(doc, path, sum)
	case document.OpPush:
		current, exists := document.Lookup(doc, path)
		if !exists || current == nil {
			document.SetPath(doc, path, []any{document.Clone(value)})
			return nil
		}
		items, ok := document.AsSlice(current)
		if !ok {
			return NewInvalidUpdateError(fmt.Sprintf("cannot push to non array field %s", path))
		}
		document.SetPath(doc, path, append(append([]any{}, items...), document.Clone(value)))
	case document.OpRename:
		target, ok := value.(string)
		if !ok || target == "" {
			return NewInvalidUpdateError(fmt.Sprintf("$rename target for %s must be a string", path))
		}
		if moved, exists := document.UnsetPath(doc, path); exists {
			document.SetPath(doc, target, moved)
		}
	default:
		return NewInvalidUpdateError(fmt.Sprintf("unknown update operator %s", op))
	}

	return nil
}

func add(a, b any) (any, error) {
	_, aText := a.(string)
	_, bText := b.(string)
	if aText || bText {
		return nil, fmt.Errorf("non numeric operand")
	}

	x, err := document.TypeNumber.Cast(a)
	if err != nil {
		return nil, err
	}
	y, err := document.TypeNumber.Cast(b)
	if err != nil {
		return nil, err
	}

	xi, xInt := x.(int64)
	yi, yInt := y.(int64)
	if xInt && yInt {
		return xi + yi, nil
	}

	return toFloat64(x) + toFloat64(y), nil
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// Replace returns replacement as the new version of doc, keeping its _id
func Replace(doc document.Document, replacement document.Update) (document.Document, error) {
	if document.HasOperators(replacement) {
		return nil, NewInvalidUpdateError("replacement document must not contain update operators")
	}

	result := document.Document(document.Clone(map[string]any(replacement)).(map[string]any))

	if id, ok := result[document.IDKey]; ok && doc.ID() != nil && !document.Equal(id, doc.ID()) {
		return nil, NewInvalidUpdateError("the field _id is immutable")
	}

	if doc.ID() != nil {
		result[document.IDKey] = doc.ID()
	}

	return result, nil
}

// Seed builds the initial version of a document upserted through filter
// from the equality conditions of the filter
func Seed(filter document.Filter) document.Document {
	seed := document.Document{}

	for key, condition := range filter {
		if document.IsOperator(key) {
			if key == document.OpAnd {
				if filters, err := subFilters(key, condition); err == nil {
					for _, f := range filters {
						for k, v := range Seed(f) {
							seed[k] = v
						}
					}
				}
			}
			continue
		}

		if document.IsOperatorExpression(condition) {
			ops, _ := document.AsMap(condition)
			if eq, ok := ops[document.OpEq]; ok {
				document.SetPath(seed, key, document.Clone(eq))
			}
			continue
		}

		document.SetPath(seed, key, document.Clone(condition))
	}

	return seed
}

// Upserted returns the document to insert when an upsert matched nothing
func Upserted(filter document.Filter, update document.Update, overwrite bool) (document.Document, error) {
	var doc document.Document
	var err error

	if overwrite {
		doc, err = Replace(document.Document{}, update)
	} else {
		doc, err = ApplyUpdate(Seed(filter), update, true)
	}

	if err != nil {
		return nil, err
	}

	if doc.ID() == nil {
		if id, ok := filter[document.IDKey]; ok && !document.IsOperatorExpression(id) {
			doc[document.IDKey] = id
		} else {
			doc[document.IDKey] = document.NewObjectID()
		}
	}

	return doc, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
