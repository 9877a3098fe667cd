package odm

import (
	"context"
	"fmt"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/tenancy"
)

func (m *Model) populate(ctx context.Context, entities []*Entity, paths []string, b *tenancy.Binding) error {
	for _, path := range paths {
		if err := m.populatePath(ctx, entities, path, b); err != nil {
			return err
		}
	}
	return nil
}

// populatePath loads the documents referenced by path. The tenant scope of
// the query follows the reference only when the referenced model uses the
// same tenant key, otherwise the referenced documents are loaded unscoped.
func (m *Model) populatePath(ctx context.Context, entities []*Entity, path string, b *tenancy.Binding) error {
	ref, err := m.referencedModel(entities, path)
	if err != nil {
		return err
	}

	ids := []any{}
	seen := map[string]bool{}

	for _, e := range entities {
		for _, id := range referencedIDs(e.doc[path]) {
			key := document.Key(id)
			if !seen[key] {
				seen[key] = true
				ids = append(ids, id)
			}
		}
	}

	byID := map[string]*Entity{}

	if len(ids) > 0 {
		var h Handle = ref
		if b != nil && tenancy.Propagates(m.schema.Tenancy(), ref.schema.Tenancy()) {
			h = ref.ByTenant(b.Value)
		}

		found, err := h.Find(ctx, document.Filter{document.IDKey: map[string]any{document.OpIn: ids}})
		if err != nil {
			return fmt.Errorf("failed to populate %s of %s: %w", path, m.name, err)
		}

		for _, r := range found {
			byID[document.Key(r.ID())] = r
		}
	}

	for _, e := range entities {
		refs := []*Entity{}
		for _, id := range referencedIDs(e.doc[path]) {
			if r, ok := byID[document.Key(id)]; ok {
				refs = append(refs, r)
			}
		}
		e.setPopulated(path, refs)
	}

	return nil
}

func (m *Model) referencedModel(entities []*Entity, path string) (*Model, error) {
	f, ok := m.schema.Field(path)
	if !ok || f.Ref == "" {
		// the reference may be declared by a discriminator
		for _, e := range entities {
			if f, ok = e.model.schema.Field(path); ok && f.Ref != "" {
				break
			}
		}
	}

	if !ok || f.Ref == "" {
		return nil, fmt.Errorf("%w: %s of %s", ErrNotAReference, path, m.name)
	}

	ref, ok := m.registry.Lookup(f.Ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s referenced by %s of %s", ErrUnknownModel, f.Ref, path, m.name)
	}

	return ref, nil
}

func referencedIDs(v any) []any {
	if v == nil {
		return nil
	}

	if items, ok := document.AsSlice(v); ok {
		return items
	}

	return []any{v}
}
