package odm

import (
	"context"
	"encoding/json"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/tenancy"
)

// Entity is a document of a model, either loaded from the store or
// constructed and not yet saved
type Entity struct {
	model     *Model
	doc       document.Document
	binding   *tenancy.Binding
	isNew     bool
	populated map[string][]*Entity
}

func newEntity(m *Model, doc document.Document, b *tenancy.Binding, isNew bool) *Entity {
	return &Entity{
		model:   m,
		doc:     doc,
		binding: b,
		isNew:   isNew,
	}
}

func (e *Entity) Model() *Model {
	return e.model
}

func (e *Entity) ID() any {
	return e.doc.ID()
}

func (e *Entity) Get(path string) any {
	v, _ := e.doc.Get(path)
	return v
}

func (e *Entity) Set(path string, value any) {
	document.SetPath(e.doc, path, value)
}

func (e *Entity) Unset(path string) {
	document.UnsetPath(e.doc, path)
}

// Document returns a copy of the fields of the entity
func (e *Entity) Document() document.Document {
	return e.doc.Clone()
}

func (e *Entity) IsNew() bool {
	return e.isNew
}

// HasTenantContext reports whether the entity was constructed or loaded
// through a tenant scoped handle
func (e *Entity) HasTenantContext() bool {
	return e.binding != nil
}

// TenantID returns the value of the tenant field, or nil when the model is
// not tenant aware or accessors are turned off
func (e *Entity) TenantID() any {
	key := e.model.TenantIDKey()
	if key == "" {
		return nil
	}
	return e.doc[key]
}

// Populated returns the entities loaded for a reference field by Populate
func (e *Entity) Populated(path string) []*Entity {
	return e.populated[path]
}

// Save inserts a new entity or replaces the stored version of a loaded one.
// Entities of a tenant scoped handle have their tenant field reset to the
// tenant of the handle before they are written.
func (e *Entity) Save(ctx context.Context) error {
	return e.model.save(ctx, e)
}

func (e *Entity) Remove(ctx context.Context) error {
	return e.model.remove(ctx, e)
}

func (e *Entity) saved(doc document.Document) {
	e.doc = doc
	e.isNew = false
}

func (e *Entity) setPopulated(path string, refs []*Entity) {
	if e.populated == nil {
		e.populated = map[string][]*Entity{}
	}
	e.populated[path] = refs
}

// MarshalJSON renders the document with populated references expanded
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Expand())
}

// Expand returns a copy of the document where populated reference fields
// hold the referenced documents instead of their ids
func (e *Entity) Expand() document.Document {
	out := e.doc.Clone()

	for path, refs := range e.populated {
		expanded := make([]any, 0, len(refs))
		for _, r := range refs {
			expanded = append(expanded, map[string]any(r.Expand()))
		}

		if f, ok := e.model.schema.Field(path); ok && !f.Array {
			if len(expanded) > 0 {
				out[path] = expanded[0]
			} else {
				out[path] = nil
			}
			continue
		}

		out[path] = expanded
	}

	return out
}
