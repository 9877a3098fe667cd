package schema

import (
	"github.com/diwise/tenant-store/pkg/document"
)

type Field struct {
	Name     string
	Type     document.FieldType
	Array    bool
	Required bool
	// Ref names the model that values of this field refer to by id
	Ref string
}

type FieldOption func(*Field)

func Required() FieldOption {
	return func(f *Field) {
		f.Required = true
	}
}

func Array() FieldOption {
	return func(f *Field) {
		f.Array = true
	}
}

func Ref(model string) FieldOption {
	return func(f *Field) {
		f.Ref = model
	}
}

func NewField(name string, t document.FieldType, options ...FieldOption) Field {
	f := Field{Name: name, Type: t}
	for _, option := range options {
		option(&f)
	}
	return f
}

func String(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeString, options...)
}

func Number(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeNumber, options...)
}

func Boolean(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeBoolean, options...)
}

func Date(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeDate, options...)
}

func ObjectID(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeObjectID, options...)
}

func Identifier(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeIdentifier, options...)
}

func Mixed(name string, options ...FieldOption) Field {
	return NewField(name, document.TypeMixed, options...)
}

// Cast converts v to the type of the field. Single values assigned to array
// fields are wrapped in an array.
func (f Field) Cast(v any) (any, error) {
	if !f.Array || v == nil {
		return f.Type.Cast(v)
	}

	items, ok := document.AsSlice(v)
	if !ok {
		items = []any{v}
	}

	result := make([]any, 0, len(items))
	for _, item := range items {
		c, err := f.Type.Cast(item)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}

	return result, nil
}

// CastElement casts a value that is compared against, or pushed to, the field
func (f Field) CastElement(v any) (any, error) {
	if _, isSlice := document.AsSlice(v); isSlice {
		return f.Cast(v)
	}
	return f.Type.Cast(v)
}
