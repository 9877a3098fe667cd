package store

import (
	"fmt"

	"github.com/diwise/tenant-store/pkg/document"
)

// Match evaluates filter against doc. It is shared by drivers that evaluate
// filters in process.
func Match(doc document.Document, filter document.Filter) (bool, error) {
	for key, condition := range filter {
		ok, err := matchKey(doc, key, condition)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

func matchKey(doc document.Document, key string, condition any) (bool, error) {
	switch key {
	case document.OpAnd, document.OpOr, document.OpNor:
		filters, err := subFilters(key, condition)
		if err != nil {
			return false, err
		}
		return matchLogical(doc, key, filters)
	}

	if document.IsOperator(key) {
		return false, NewUnsupportedError(fmt.Sprintf("unsupported top level operator %s", key))
	}

	value, exists := doc.Get(key)

	if document.IsOperatorExpression(condition) {
		ops, _ := document.AsMap(condition)
		return matchOperators(value, exists, ops)
	}

	return fieldEquals(value, condition), nil
}

func subFilters(op string, condition any) ([]document.Filter, error) {
	items, ok := document.AsSlice(condition)
	if !ok || len(items) == 0 {
		return nil, NewUnsupportedError(fmt.Sprintf("%s requires a non empty array", op))
	}

	filters := make([]document.Filter, 0, len(items))
	for _, item := range items {
		m, ok := document.AsMap(item)
		if !ok {
			return nil, NewUnsupportedError(fmt.Sprintf("%s entries must be objects", op))
		}
		filters = append(filters, document.Filter(m))
	}

	return filters, nil
}

func matchLogical(doc document.Document, op string, filters []document.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := Match(doc, f)
		if err != nil {
			return false, err
		}

		switch {
		case op == document.OpAnd && !ok:
			return false, nil
		case op == document.OpOr && ok:
			return true, nil
		case op == document.OpNor && ok:
			return false, nil
		}
	}

	return op != document.OpOr, nil
}

func matchOperators(value any, exists bool, ops map[string]any) (bool, error) {
	for op, operand := range ops {
		ok, err := matchOperator(value, exists, op, operand)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchOperator(value any, exists bool, op string, operand any) (bool, error) {
	switch op {
	case document.OpEq:
		return fieldEquals(value, operand), nil
	case document.OpNe:
		return !fieldEquals(value, operand), nil
	case document.OpGt, document.OpGte, document.OpLt, document.OpLte:
		return fieldCompares(value, op, operand), nil
	case document.OpIn, document.OpNin:
		candidates, ok := document.AsSlice(operand)
		if !ok {
			return false, NewUnsupportedError(fmt.Sprintf("%s requires an array", op))
		}
		found := false
		for _, c := range candidates {
			if fieldEquals(value, c) {
				found = true
				break
			}
		}
		return found == (op == document.OpIn), nil
	case document.OpExists:
		want, ok := operand.(bool)
		if !ok {
			want = operand != nil
		}
		return exists == want, nil
	case document.OpNot:
		inner, ok := document.AsMap(operand)
		if !ok {
			return false, NewUnsupportedError("$not requires an operator expression")
		}
		matched, err := matchOperators(value, exists, inner)
		return !matched, err
	}

	return false, NewUnsupportedError(fmt.Sprintf("unsupported operator %s", op))
}

// fieldEquals matches arrays by membership as well as by whole value
func fieldEquals(value, operand any) bool {
	if document.Equal(value, operand) {
		return true
	}

	if items, ok := document.AsSlice(value); ok {
		for _, item := range items {
			if document.Equal(item, operand) {
				return true
			}
		}
	}

	return false
}

func fieldCompares(value any, op string, operand any) bool {
	candidates := []any{value}
	if items, ok := document.AsSlice(value); ok {
		candidates = items
	}

	for _, c := range candidates {
		cmp, ok := document.Compare(c, operand)
		if !ok {
			continue
		}

		switch {
		case op == document.OpGt && cmp > 0,
			op == document.OpGte && cmp >= 0,
			op == document.OpLt && cmp < 0,
			op == document.OpLte && cmp <= 0:
			return true
		}
	}

	return false
}
