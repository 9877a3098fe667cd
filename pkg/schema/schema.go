package schema

import (
	"slices"
	"strings"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/tenancy"
)

const DefaultDiscriminatorKey string = "__t"

// Schema declares the fields of the documents in a collection and how they
// are cast, validated and indexed
type Schema struct {
	fields           map[string]Field
	order            []string
	strict           bool
	discriminatorKey string
	tenancy          *tenancy.Config
	indexes          []store.Index
}

type Option func(*Schema)

func Fields(fields ...Field) Option {
	return func(s *Schema) {
		for _, f := range fields {
			s.addField(f)
		}
	}
}

// Strict controls whether fields that are not declared are dropped on cast
func Strict(strict bool) Option {
	return func(s *Schema) {
		s.strict = strict
	}
}

func DiscriminatorKey(key string) Option {
	return func(s *Schema) {
		if key != "" {
			s.discriminatorKey = key
		}
	}
}

// WithTenancy makes the schema tenant aware. The tenant field and its index
// are added when the schema is created.
func WithTenancy(cfg *tenancy.Config) Option {
	return func(s *Schema) {
		s.tenancy = cfg
	}
}

func Index(name string, unique bool, keys ...string) Option {
	return func(s *Schema) {
		s.indexes = append(s.indexes, store.Index{Name: name, Keys: keys, Unique: unique})
	}
}

func New(options ...Option) *Schema {
	s := &Schema{
		fields:           map[string]Field{},
		strict:           true,
		discriminatorKey: DefaultDiscriminatorKey,
	}

	for _, option := range options {
		option(s)
	}

	if s.tenancy.IsEnabled() {
		s.applyTenancy()
	}

	return s
}

func (s *Schema) applyTenancy() {
	key := s.tenancy.TenantIDKey

	if f, ok := s.fields[key]; ok {
		f.Required = f.Required || s.tenancy.RequireTenantID
		s.fields[key] = f
	} else {
		s.addField(Field{Name: key, Type: s.tenancy.TenantIDType, Required: s.tenancy.RequireTenantID})
	}

	for i, idx := range s.indexes {
		if idx.Unique && s.tenancy.IndexesWithTenant && !slices.Contains(idx.Keys, key) {
			s.indexes[i].Keys = append([]string{key}, idx.Keys...)
		}
	}

	s.indexes = append(s.indexes, store.Index{Name: key, Keys: []string{key}})
}

func (s *Schema) addField(f Field) {
	if _, exists := s.fields[f.Name]; !exists {
		s.order = append(s.order, f.Name)
	}
	s.fields[f.Name] = f
}

func (s *Schema) Tenancy() *tenancy.Config {
	return s.tenancy
}

func (s *Schema) DiscriminatorKey() string {
	return s.discriminatorKey
}

func (s *Schema) IsStrict() bool {
	return s.strict
}

func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

func (s *Schema) Fields() []Field {
	result := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.fields[name])
	}
	return result
}

func (s *Schema) Indexes() []store.Index {
	return slices.Clone(s.indexes)
}

// Extend returns the schema of a discriminator. It has the fields of both
// schemas and the discriminator key, strictness and tenancy of s.
func (s *Schema) Extend(child *Schema) *Schema {
	extended := &Schema{
		fields:           map[string]Field{},
		strict:           s.strict,
		discriminatorKey: s.discriminatorKey,
		tenancy:          s.tenancy,
		indexes:          slices.Clone(s.indexes),
	}

	for _, f := range s.Fields() {
		extended.addField(f)
	}

	if child != nil {
		for _, f := range child.Fields() {
			extended.addField(f)
		}
	}

	return extended
}

func (s *Schema) fieldFor(path string) (Field, bool) {
	if path == document.IDKey {
		if f, ok := s.fields[document.IDKey]; ok {
			return f, true
		}
		return Field{Name: document.IDKey, Type: document.TypeObjectID}, true
	}

	if path == s.discriminatorKey {
		if f, ok := s.fields[path]; ok {
			return f, true
		}
		return Field{Name: path, Type: document.TypeString}, true
	}

	f, ok := s.fields[path]
	return f, ok
}

// Cast returns a copy of doc with every declared field cast to its type.
// Undeclared fields are dropped when the schema is strict.
func (s *Schema) Cast(doc document.Document) (document.Document, error) {
	result := make(document.Document, len(doc))
	verr := &ValidationError{}

	for key, value := range doc {
		f, known := s.fieldFor(key)
		if !known {
			if !s.strict {
				result[key] = document.Clone(value)
			}
			continue
		}

		casted, err := f.Cast(value)
		if err != nil {
			verr.add(key, err.Error())
			continue
		}

		result[key] = document.Clone(casted)
	}

	return result, verr.orNil()
}

// Validate checks that every required field has a value
func (s *Schema) Validate(doc document.Document) error {
	verr := &ValidationError{}

	for _, f := range s.Fields() {
		if !f.Required {
			continue
		}

		v, ok := doc[f.Name]
		if !ok || v == nil {
			verr.add(f.Name, "is required")
			continue
		}

		if items, isSlice := document.AsSlice(v); f.Array && isSlice && len(items) == 0 {
			verr.add(f.Name, "is required")
		}
	}

	return verr.orNil()
}

// CastFilter casts the operands of conditions on declared fields. Values
// that can not be cast are kept so that they simply do not match.
func (s *Schema) CastFilter(filter document.Filter) document.Filter {
	if filter == nil {
		return nil
	}

	result := make(document.Filter, len(filter))

	for key, condition := range filter {
		switch key {
		case document.OpAnd, document.OpOr, document.OpNor:
			result[key] = s.castSubFilters(condition)
			continue
		}

		f, known := s.fieldFor(key)
		if !known || strings.Contains(key, ".") {
			result[key] = condition
			continue
		}

		result[key] = s.castCondition(f, condition)
	}

	return result
}

func (s *Schema) castSubFilters(condition any) any {
	items, ok := document.AsSlice(condition)
	if !ok {
		return condition
	}

	result := make([]any, 0, len(items))
	for _, item := range items {
		m, ok := document.AsMap(item)
		if !ok {
			result = append(result, item)
			continue
		}
		result = append(result, map[string]any(s.CastFilter(document.Filter(m))))
	}

	return result
}

func (s *Schema) castCondition(f Field, condition any) any {
	if !document.IsOperatorExpression(condition) {
		return castOrKeep(f, condition)
	}

	ops, _ := document.AsMap(condition)
	result := make(map[string]any, len(ops))

	for op, operand := range ops {
		switch op {
		case document.OpEq, document.OpNe, document.OpGt, document.OpGte, document.OpLt, document.OpLte:
			result[op] = castOrKeep(f, operand)
		case document.OpIn, document.OpNin:
			items, ok := document.AsSlice(operand)
			if !ok {
				result[op] = operand
				continue
			}
			casted := make([]any, 0, len(items))
			for _, item := range items {
				casted = append(casted, castOrKeep(f, item))
			}
			result[op] = casted
		case document.OpNot:
			result[op] = s.castCondition(f, operand)
		default:
			result[op] = operand
		}
	}

	return result
}

func castOrKeep(f Field, v any) any {
	casted, err := f.CastElement(v)
	if err != nil {
		return v
	}
	return casted
}

// CastUpdate casts the values assigned by an operator based update. Flat
// assignments are moved into $set. Malformed operators are passed through
// for the store to reject.
func (s *Schema) CastUpdate(update document.Update) (document.Update, error) {
	result := make(document.Update, len(update))
	set := map[string]any{}
	verr := &ValidationError{}

	for key, value := range update {
		if !document.IsOperator(key) {
			s.castAssignment(set, key, value, false, verr)
			continue
		}

		operand, ok := document.AsMap(value)
		if !ok {
			result[key] = value
			continue
		}

		switch key {
		case document.OpSet:
			for path, v := range operand {
				s.castAssignment(set, path, v, false, verr)
			}
		case document.OpSetOnInsert, document.OpPush:
			assignments := map[string]any{}
			for path, v := range operand {
				s.castAssignment(assignments, path, v, key == document.OpPush, verr)
			}
			result[key] = assignments
		default:
			result[key] = document.Clone(map[string]any(operand))
		}
	}

	if len(set) > 0 {
		result[document.OpSet] = set
	}

	return result, verr.orNil()
}

func (s *Schema) castAssignment(dst map[string]any, path string, value any, element bool, verr *ValidationError) {
	top, _, nested := strings.Cut(path, ".")

	f, known := s.fieldFor(top)
	if !known {
		if !s.strict {
			dst[path] = document.Clone(value)
		}
		return
	}

	if nested {
		dst[path] = document.Clone(value)
		return
	}

	cast := f.Cast
	if element {
		cast = f.Type.Cast
	}

	casted, err := cast(value)
	if err != nil {
		verr.add(path, err.Error())
		return
	}

	dst[path] = document.Clone(casted)
}
