package document

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// IDKey is the field holding the primary identifier of every stored document
const IDKey string = "_id"

// Document is a schemaless record as stored in a collection
type Document map[string]any

// Filter is a query predicate expressed in the operator dialect of the store
type Filter map[string]any

// Update is either a set of update operators or, when overwriting, a
// complete replacement document
type Update map[string]any

const (
	OpAnd    string = "$and"
	OpOr     string = "$or"
	OpNor    string = "$nor"
	OpNot    string = "$not"
	OpEq     string = "$eq"
	OpNe     string = "$ne"
	OpGt     string = "$gt"
	OpGte    string = "$gte"
	OpLt     string = "$lt"
	OpLte    string = "$lte"
	OpIn     string = "$in"
	OpNin    string = "$nin"
	OpExists string = "$exists"

	OpSet         string = "$set"
	OpUnset       string = "$unset"
	OpInc         string = "$inc"
	OpPush        string = "$push"
	OpSetOnInsert string = "$setOnInsert"
	OpRename      string = "$rename"
)

// NewObjectID returns a fresh identifier suitable for the IDKey field
func NewObjectID() string {
	return uuid.NewString()
}

func IsOperator(key string) bool {
	return strings.HasPrefix(key, "$")
}

// HasOperators reports whether any top level key of the update is an operator
func HasOperators(u Update) bool {
	for k := range u {
		if IsOperator(k) {
			return true
		}
	}
	return false
}

// IsOperatorExpression reports whether v is a non empty map where every key
// is an operator, i.e. {"$gt": 4, "$lt": 9}
func IsOperatorExpression(v any) bool {
	m, ok := AsMap(v)
	if !ok || len(m) == 0 {
		return false
	}

	for k := range m {
		if !IsOperator(k) {
			return false
		}
	}

	return true
}

func (d Document) Get(key string) (any, bool) {
	return Lookup(d, key)
}

func (d Document) ID() any {
	return d[IDKey]
}

func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

func (f Filter) Clone() Filter {
	if f == nil {
		return nil
	}
	return Filter(cloneMap(f))
}

func (u Update) Clone() Update {
	if u == nil {
		return nil
	}
	return Update(cloneMap(u))
}

// AsMap returns v as a plain map if it is any of the map flavours used by
// this package or decoded from JSON
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	case Filter:
		return m, true
	case Update:
		return m, true
	}
	return nil, false
}

// AsSlice returns v as a []any if it is a slice or an array of any element type
func AsSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	result := make([]any, rv.Len())
	for i := range result {
		result[i] = rv.Index(i).Interface()
	}

	return result, true
}

// Lookup resolves a dotted path such as "address.city" within a map
func Lookup(m map[string]any, path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")
	v, ok := m[head]
	if !ok {
		return nil, false
	}

	if !nested {
		return v, true
	}

	child, ok := AsMap(v)
	if !ok {
		return nil, false
	}

	return Lookup(child, rest)
}

// SetPath assigns value at a dotted path, creating intermediate maps as needed
func SetPath(m map[string]any, path string, value any) bool {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		m[head] = value
		return true
	}

	child, ok := AsMap(m[head])
	if !ok {
		if _, exists := m[head]; exists && m[head] != nil {
			return false
		}
		child = map[string]any{}
		m[head] = child
	}

	return SetPath(child, rest, value)
}

// UnsetPath removes the value at a dotted path and returns what was removed
func UnsetPath(m map[string]any, path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		v, ok := m[head]
		delete(m, head)
		return v, ok
	}

	child, ok := AsMap(m[head])
	if !ok {
		return nil, false
	}

	return UnsetPath(child, rest)
}

// Clone returns a deep copy of maps and slices within v. Other values are
// returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Document:
		return Document(cloneMap(t))
	case Filter:
		return Filter(cloneMap(t))
	case Update:
		return Update(cloneMap(t))
	case []any:
		result := make([]any, len(t))
		for i := range t {
			result[i] = Clone(t[i])
		}
		return result
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = Clone(v)
	}
	return result
}
