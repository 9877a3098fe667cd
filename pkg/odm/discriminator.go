package odm

import (
	"fmt"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/schema"
)

// Discriminator registers a sub type of m that is stored in the same
// collection. Its documents are tagged with name under the discriminator key
// and it shares the tenancy configuration of m.
func (m *Model) Discriminator(name string, s *schema.Schema) (*Model, error) {
	if m.parent != nil {
		return nil, fmt.Errorf("cannot add discriminator %s to %s, it is a discriminator itself", name, m.name)
	}

	child := &Model{
		name:       name,
		schema:     m.schema.Extend(s),
		collection: m.collection,
		registry:   m.registry,
		parent:     m,
		tag:        name,
		children:   map[string]*Model{},
	}

	m.mu.Lock()
	if _, exists := m.children[name]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: discriminator %s of %s", ErrModelExists, name, m.name)
	}
	m.children[name] = child
	m.mu.Unlock()

	if err := m.registry.register(child); err != nil {
		m.mu.Lock()
		delete(m.children, name)
		m.mu.Unlock()
		return nil, err
	}

	return child, nil
}

// Discriminators returns the names of the registered sub types of m
func (m *Model) Discriminators() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.children))
	for name := range m.children {
		names = append(names, name)
	}
	return names
}

// variantFor picks the model a document belongs to from its discriminator tag
func (m *Model) variantFor(doc document.Document) *Model {
	tag, ok := doc[m.schema.DiscriminatorKey()].(string)
	if !ok || tag == "" || tag == m.tag {
		return m
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if child, ok := m.children[tag]; ok {
		return child
	}

	return m
}
