package postgres

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/jackc/pgx/v5"
)

var validPath = regexp.MustCompile(`^[A-Za-z0-9_\-]+(\.[A-Za-z0-9_\-]+)*$`)

// query collects the positional arguments of a statement while its clauses
// are built
type query struct {
	args []any
}

func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *query) path(key string) string {
	return fmt.Sprintf("(doc #> %s::text[])", q.arg(strings.Split(key, ".")))
}

func (q *query) json(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter value: %w", err)
	}
	return fmt.Sprintf("%s::jsonb", q.arg(string(b))), nil
}

// where translates a filter into a boolean SQL expression over the doc column
func (q *query) where(filter document.Filter) (string, error) {
	if len(filter) == 0 {
		return "TRUE", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))

	for _, key := range keys {
		var clause string
		var err error

		switch key {
		case document.OpAnd, document.OpOr, document.OpNor:
			clause, err = q.logical(key, filter[key])
		default:
			if document.IsOperator(key) {
				return "", store.NewUnsupportedError(fmt.Sprintf("unsupported top level operator %s", key))
			}
			clause, err = q.condition(key, filter[key])
		}

		if err != nil {
			return "", err
		}

		clauses = append(clauses, clause)
	}

	return strings.Join(clauses, " AND "), nil
}

func (q *query) logical(op string, condition any) (string, error) {
	items, ok := document.AsSlice(condition)
	if !ok || len(items) == 0 {
		return "", store.NewUnsupportedError(fmt.Sprintf("%s requires a non empty array", op))
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		sub, ok := document.AsMap(item)
		if !ok {
			return "", store.NewUnsupportedError(fmt.Sprintf("%s requires an array of filters", op))
		}
		clause, err := q.where(document.Filter(sub))
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+clause+")")
	}

	switch op {
	case document.OpAnd:
		return "(" + strings.Join(parts, " AND ") + ")", nil
	case document.OpOr:
		return "(" + strings.Join(parts, " OR ") + ")", nil
	}

	return "NOT (" + strings.Join(parts, " OR ") + ")", nil
}

func (q *query) condition(key string, condition any) (string, error) {
	if !validPath.MatchString(key) {
		return "", store.NewUnsupportedError(fmt.Sprintf("invalid field path %q", key))
	}

	if !document.IsOperatorExpression(condition) {
		return q.equals(key, condition)
	}

	ops, _ := document.AsMap(condition)

	names := make([]string, 0, len(ops))
	for op := range ops {
		names = append(names, op)
	}
	sort.Strings(names)

	clauses := make([]string, 0, len(names))
	for _, op := range names {
		clause, err := q.operator(key, op, ops[op])
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}

	return "(" + strings.Join(clauses, " AND ") + ")", nil
}

func (q *query) operator(key, op string, operand any) (string, error) {
	switch op {
	case document.OpEq:
		return q.equals(key, operand)
	case document.OpNe:
		eq, err := q.equals(key, operand)
		if err != nil {
			return "", err
		}
		return "NOT COALESCE(" + eq + ", FALSE)", nil
	case document.OpGt, document.OpGte, document.OpLt, document.OpLte:
		return q.compare(key, op, operand)
	case document.OpIn, document.OpNin:
		items, ok := document.AsSlice(operand)
		if !ok {
			return "", store.NewUnsupportedError(fmt.Sprintf("%s requires an array", op))
		}
		in := "FALSE"
		if len(items) > 0 {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				eq, err := q.equals(key, item)
				if err != nil {
					return "", err
				}
				parts = append(parts, eq)
			}
			in = "(" + strings.Join(parts, " OR ") + ")"
		}
		if op == document.OpNin {
			return "NOT COALESCE(" + in + ", FALSE)", nil
		}
		return in, nil
	case document.OpExists:
		exists, _ := operand.(bool)
		if exists {
			return q.path(key) + " IS NOT NULL", nil
		}
		return q.path(key) + " IS NULL", nil
	case document.OpNot:
		inner, err := q.condition(key, operand)
		if err != nil {
			return "", err
		}
		return "NOT COALESCE(" + inner + ", FALSE)", nil
	}

	return "", store.NewUnsupportedError(fmt.Sprintf("unsupported operator %s", op))
}

// equals matches the value itself or, for arrays, any of its elements. A nil
// operand matches both missing fields and null values.
func (q *query) equals(key string, operand any) (string, error) {
	if operand == nil {
		p := q.path(key)
		return fmt.Sprintf("(%s IS NULL OR %s = 'null'::jsonb)", p, p), nil
	}

	v, err := q.json(operand)
	if err != nil {
		return "", err
	}

	p := q.path(key)

	return fmt.Sprintf("(%s = %s OR (jsonb_typeof(%s) = 'array' AND %s @> jsonb_build_array(%s)))", p, v, p, p, v), nil
}

func (q *query) compare(key, op string, operand any) (string, error) {
	var sqlOp string
	switch op {
	case document.OpGt:
		sqlOp = ">"
	case document.OpGte:
		sqlOp = ">="
	case document.OpLt:
		sqlOp = "<"
	default:
		sqlOp = "<="
	}

	v, err := q.json(operand)
	if err != nil {
		return "", err
	}

	p := q.path(key)

	return fmt.Sprintf("(jsonb_typeof(%s) = jsonb_typeof(%s) AND %s %s %s)", p, v, p, sqlOp, v), nil
}

// orderBy sorts missing values first in ascending order, like the in memory
// store does, and falls back to insertion order
func (q *query) orderBy(fields []store.SortField) (string, error) {
	parts := make([]string, 0, len(fields)+1)

	for _, f := range fields {
		if !validPath.MatchString(f.Key) {
			return "", store.NewUnsupportedError(fmt.Sprintf("invalid sort path %q", f.Key))
		}
		if f.Descending {
			parts = append(parts, q.path(f.Key)+" DESC NULLS LAST")
		} else {
			parts = append(parts, q.path(f.Key)+" ASC NULLS FIRST")
		}
	}

	parts = append(parts, "seq ASC")

	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func (q *query) page(opts store.FindOptions) string {
	clause := ""
	if opts.Limit > 0 {
		clause += " LIMIT " + q.arg(opts.Limit)
	}
	if opts.Skip > 0 {
		clause += " OFFSET " + q.arg(opts.Skip)
	}
	return clause
}

func tableName(collection string) string {
	return pgx.Identifier{"collection_" + collection}.Sanitize()
}

// indexStatement renders the DDL of an index on the documents of a table.
// Keys are validated since DDL statements can not take parameters.
func indexStatement(collection string, index store.Index) (string, error) {
	if len(index.Keys) == 0 {
		return "", fmt.Errorf("index %s has no keys", index.Name)
	}

	exprs := make([]string, 0, len(index.Keys))
	for _, key := range index.Keys {
		if !validPath.MatchString(key) {
			return "", fmt.Errorf("invalid index key %q", key)
		}
		exprs = append(exprs, fmt.Sprintf("(doc #>> '{%s}')", strings.ReplaceAll(key, ".", ",")))
	}

	unique := ""
	if index.Unique {
		unique = "UNIQUE "
	}

	name := pgx.Identifier{"collection_" + collection + "_" + index.Name}.Sanitize()

	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)", unique, name, tableName(collection), strings.Join(exprs, ", ")), nil
}
