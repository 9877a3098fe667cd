package odm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/diwise/tenant-store/pkg/schema"
	"github.com/diwise/tenant-store/pkg/store"
)

// Registry compiles schemas into models bound to the collections of a driver
// and resolves models by name when references are populated
type Registry struct {
	driver store.Driver

	mu     sync.RWMutex
	models map[string]*Model
}

func NewRegistry(driver store.Driver) *Registry {
	return &Registry{
		driver: driver,
		models: map[string]*Model{},
	}
}

type ModelOption func(*modelConfig)

type modelConfig struct {
	collection string
}

// CollectionName stores the documents of a model in a collection that is not
// named after the model
func CollectionName(name string) ModelOption {
	return func(mc *modelConfig) {
		mc.collection = name
	}
}

func (r *Registry) Model(name string, s *schema.Schema, options ...ModelOption) (*Model, error) {
	mc := modelConfig{collection: name}
	for _, option := range options {
		option(&mc)
	}

	if s == nil {
		s = schema.New()
	}

	m := &Model{
		name:       name,
		schema:     s,
		collection: r.driver.Collection(mc.collection),
		registry:   r,
		children:   map[string]*Model{},
	}

	if err := r.register(m); err != nil {
		return nil, err
	}

	return m, nil
}

func (r *Registry) register(m *Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[m.name]; exists {
		return fmt.Errorf("%w: %s", ErrModelExists, m.name)
	}

	r.models[m.name] = m

	return nil
}

func (r *Registry) Lookup(name string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[name]
	return m, ok
}

// Models returns every registered model, discriminators included, ordered by name
func (r *Registry) Models() []*Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].name < result[j].name
	})

	return result
}

// EnsureIndexes creates the indexes declared by the schemas of all models
func (r *Registry) EnsureIndexes(ctx context.Context) error {
	for _, m := range r.Models() {
		if m.parent != nil {
			continue
		}

		for _, idx := range m.schema.Indexes() {
			if err := m.collection.EnsureIndex(ctx, idx); err != nil {
				return fmt.Errorf("failed to ensure index %s on %s: %w", idx.Name, m.collection.Name(), err)
			}
		}
	}

	return nil
}
