package odm

import (
	"context"
	"fmt"
	"sync"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/schema"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/tenancy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceAttributeModel  string = "model"
	TraceAttributeTenant string = "tenant"
)

var tracer = otel.Tracer("tenant-store/odm")

// Model is the unscoped handle of the documents of one schema. Operations on
// a Model are not restricted to any tenant, use ByTenant for that.
type Model struct {
	name       string
	schema     *schema.Schema
	collection store.Collection
	registry   *Registry

	parent *Model
	tag    string

	mu       sync.RWMutex
	children map[string]*Model
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Schema() *schema.Schema {
	return m.schema
}

func (m *Model) Collection() store.Collection {
	return m.collection
}

// TenantIDKey returns the name of the tenant field, or an empty string when
// the model is not tenant aware or accessors are turned off
func (m *Model) TenantIDKey() string {
	cfg := m.schema.Tenancy()
	if !cfg.IsEnabled() || !cfg.Accessors {
		return ""
	}
	return cfg.TenantIDKey
}

// ByTenant returns a new handle where every operation is scoped to the tenant
// identified by value. Models without an enabled tenancy configuration return
// themselves.
func (m *Model) ByTenant(value any) Handle {
	cfg := m.schema.Tenancy()
	if !cfg.IsEnabled() {
		return m
	}

	return &tenantHandle{
		model:   m,
		binding: cfg.Bind(value),
	}
}

func (m *Model) New(fields document.Document) *Entity {
	return m.construct(fields, nil)
}

func (m *Model) Create(ctx context.Context, docs ...document.Document) ([]*Entity, error) {
	return m.create(ctx, docs, nil)
}

func (m *Model) InsertMany(ctx context.Context, docs []document.Document) ([]*Entity, error) {
	return m.insertMany(ctx, docs, nil)
}

func (m *Model) Find(ctx context.Context, filter document.Filter, opts ...QueryOption) ([]*Entity, error) {
	return m.find(ctx, filter, nil, opts...)
}

func (m *Model) FindOne(ctx context.Context, filter document.Filter, opts ...QueryOption) (*Entity, error) {
	return m.findOne(ctx, filter, nil, opts...)
}

func (m *Model) FindByID(ctx context.Context, id any, opts ...QueryOption) (*Entity, error) {
	return m.findOne(ctx, document.Filter{document.IDKey: id}, nil, opts...)
}

func (m *Model) Count(ctx context.Context, filter document.Filter) (int64, error) {
	return m.count(ctx, filter, nil)
}

func (m *Model) FindOneAndRemove(ctx context.Context, filter document.Filter) (*Entity, error) {
	return m.findOneAndRemove(ctx, filter, nil)
}

func (m *Model) FindOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (*Entity, error) {
	return m.findOneAndUpdate(ctx, filter, update, nil, opts...)
}

func (m *Model) UpdateOne(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (store.UpdateResult, error) {
	return m.update(ctx, "update-one", filter, update, nil, m.collection.UpdateOne, opts...)
}

func (m *Model) UpdateMany(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (store.UpdateResult, error) {
	return m.update(ctx, "update-many", filter, update, nil, m.collection.UpdateMany, opts...)
}

func (m *Model) DeleteOne(ctx context.Context, filter document.Filter) (int64, error) {
	return m.delete(ctx, "delete-one", filter, nil, m.collection.DeleteOne)
}

func (m *Model) DeleteMany(ctx context.Context, filter document.Filter) (int64, error) {
	return m.delete(ctx, "delete-many", filter, nil, m.collection.DeleteMany)
}

func (m *Model) startSpan(ctx context.Context, operation string, b *tenancy.Binding) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String(TraceAttributeModel, m.name)}
	if b != nil {
		attrs = append(attrs, attribute.String(TraceAttributeTenant, fmt.Sprint(b.Value)))
	}
	return tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
}

// construct builds an entity that has not been saved yet. Fields that carry
// the tag of a discriminator are constructed as that discriminator.
func (m *Model) construct(fields document.Document, b *tenancy.Binding) *Entity {
	target := m.variantFor(fields)

	doc := fields.Clone()
	if doc == nil {
		doc = document.Document{}
	}

	if target.tag != "" {
		doc[target.schema.DiscriminatorKey()] = target.tag
	}

	if b != nil {
		b.Stamp(doc)
	}

	if doc.ID() == nil {
		doc[document.IDKey] = document.NewObjectID()
	}

	return newEntity(target, doc, b, true)
}

// prepare returns the document of e as it should be written to the store
func (m *Model) prepare(e *Entity) (document.Document, error) {
	doc := e.doc.Clone()

	if e.binding != nil {
		e.binding.Stamp(doc)
	}

	casted, err := m.schema.Cast(doc)
	if err != nil {
		return nil, err
	}

	if err = m.schema.Validate(casted); err != nil {
		return nil, err
	}

	return casted, nil
}

func (m *Model) create(ctx context.Context, docs []document.Document, b *tenancy.Binding) (result []*Entity, err error) {
	ctx, span := m.startSpan(ctx, "create", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	entities, prepared, err := m.constructAll(docs, b)
	if err != nil {
		return nil, err
	}

	for i, e := range entities {
		if err = e.model.collection.InsertOne(ctx, prepared[i]); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", e.model.name, err)
		}
	}

	for i, e := range entities {
		e.saved(prepared[i])
	}

	return entities, nil
}

// insertMany writes all documents in one store call. Any failure fails the
// whole batch and no entities are returned.
func (m *Model) insertMany(ctx context.Context, docs []document.Document, b *tenancy.Binding) (result []*Entity, err error) {
	ctx, span := m.startSpan(ctx, "insert-many", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	entities, prepared, err := m.constructAll(docs, b)
	if err != nil {
		return nil, err
	}

	if err = m.collection.InsertMany(ctx, prepared); err != nil {
		return nil, fmt.Errorf("failed to insert %d documents into %s: %w", len(prepared), m.name, err)
	}

	for i, e := range entities {
		e.saved(prepared[i])
	}

	return entities, nil
}

func (m *Model) constructAll(docs []document.Document, b *tenancy.Binding) ([]*Entity, []document.Document, error) {
	entities := make([]*Entity, 0, len(docs))
	prepared := make([]document.Document, 0, len(docs))

	for idx, d := range docs {
		e := m.construct(d, b)

		doc, err := e.model.prepare(e)
		if err != nil {
			return nil, nil, fmt.Errorf("document %d is not a valid %s: %w", idx, e.model.name, err)
		}

		entities = append(entities, e)
		prepared = append(prepared, doc)
	}

	return entities, prepared, nil
}

// scope casts filter to the schema and restricts discriminators to their own
// documents
func (m *Model) scope(filter document.Filter) document.Filter {
	scoped := m.schema.CastFilter(filter)
	if scoped == nil {
		scoped = document.Filter{}
	}

	if m.tag != "" {
		scoped[m.schema.DiscriminatorKey()] = m.tag
	}

	return scoped
}

func (m *Model) find(ctx context.Context, filter document.Filter, b *tenancy.Binding, opts ...QueryOption) (result []*Entity, err error) {
	ctx, span := m.startSpan(ctx, "find", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	q := newQuery(opts)

	docs, err := m.collection.Find(ctx, m.scope(filter), q.find)
	if err != nil {
		return nil, err
	}

	result = m.hydrate(docs, b)

	if len(q.populate) > 0 {
		if err = m.populate(ctx, result, q.populate, b); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (m *Model) findOne(ctx context.Context, filter document.Filter, b *tenancy.Binding, opts ...QueryOption) (result *Entity, err error) {
	ctx, span := m.startSpan(ctx, "find-one", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	q := newQuery(opts)

	doc, err := m.collection.FindOne(ctx, m.scope(filter), q.find)
	if err != nil || doc == nil {
		return nil, err
	}

	entities := m.hydrate([]document.Document{doc}, b)

	if len(q.populate) > 0 {
		if err = m.populate(ctx, entities, q.populate, b); err != nil {
			return nil, err
		}
	}

	return entities[0], nil
}

func (m *Model) count(ctx context.Context, filter document.Filter, b *tenancy.Binding) (n int64, err error) {
	ctx, span := m.startSpan(ctx, "count", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return m.collection.Count(ctx, m.scope(filter))
}

func (m *Model) findOneAndRemove(ctx context.Context, filter document.Filter, b *tenancy.Binding) (result *Entity, err error) {
	ctx, span := m.startSpan(ctx, "find-one-and-remove", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	doc, err := m.collection.FindOneAndDelete(ctx, m.scope(filter))
	if err != nil || doc == nil {
		return nil, err
	}

	return m.hydrate([]document.Document{doc}, b)[0], nil
}

func (m *Model) findOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, b *tenancy.Binding, opts ...UpdateOption) (result *Entity, err error) {
	ctx, span := m.startSpan(ctx, "find-one-and-update", b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	o := updateOptions(opts)

	casted, err := m.castUpdate(update, o.Overwrite)
	if err != nil {
		return nil, err
	}

	doc, err := m.collection.FindOneAndUpdate(ctx, m.scope(filter), casted, o)
	if err != nil || doc == nil {
		return nil, err
	}

	return m.hydrate([]document.Document{doc}, b)[0], nil
}

type updateFunc func(context.Context, document.Filter, document.Update, store.UpdateOptions) (store.UpdateResult, error)

func (m *Model) update(ctx context.Context, operation string, filter document.Filter, update document.Update, b *tenancy.Binding, fn updateFunc, opts ...UpdateOption) (result store.UpdateResult, err error) {
	ctx, span := m.startSpan(ctx, operation, b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	o := updateOptions(opts)

	casted, err := m.castUpdate(update, o.Overwrite)
	if err != nil {
		return result, err
	}

	return fn(ctx, m.scope(filter), casted, o)
}

type deleteFunc func(context.Context, document.Filter) (int64, error)

func (m *Model) delete(ctx context.Context, operation string, filter document.Filter, b *tenancy.Binding, fn deleteFunc) (n int64, err error) {
	ctx, span := m.startSpan(ctx, operation, b)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return fn(ctx, m.scope(filter))
}

// castUpdate casts replacement documents like new documents and operator
// based updates operator by operator
func (m *Model) castUpdate(update document.Update, overwrite bool) (document.Update, error) {
	if !overwrite {
		return m.schema.CastUpdate(update)
	}

	if document.HasOperators(update) {
		// rejected by the store
		return update, nil
	}

	doc, err := m.schema.Cast(document.Document(update))
	if err != nil {
		return nil, err
	}

	if m.tag != "" {
		doc[m.schema.DiscriminatorKey()] = m.tag
	}

	if err = m.schema.Validate(doc); err != nil {
		return nil, err
	}

	return document.Update(doc), nil
}

func (m *Model) save(ctx context.Context, e *Entity) (err error) {
	ctx, span := m.startSpan(ctx, "save", e.binding)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	doc, err := m.prepare(e)
	if err != nil {
		return err
	}

	if e.isNew {
		if err = m.collection.InsertOne(ctx, doc); err != nil {
			return err
		}
		e.saved(doc)
		return nil
	}

	filter := document.Filter{document.IDKey: doc.ID()}
	if e.binding != nil {
		filter = e.binding.Filter(filter)
	}

	result, err := m.collection.UpdateOne(ctx, filter, document.Update(doc), store.UpdateOptions{Overwrite: true})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		err = fmt.Errorf("%w: %s %v", ErrDocumentNotFound, m.name, doc.ID())
		return err
	}

	e.saved(doc)

	return nil
}

func (m *Model) remove(ctx context.Context, e *Entity) (err error) {
	ctx, span := m.startSpan(ctx, "remove", e.binding)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	filter := document.Filter{document.IDKey: e.ID()}
	if e.binding != nil {
		filter = e.binding.Filter(filter)
	}

	n, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if n == 0 {
		err = fmt.Errorf("%w: %s %v", ErrDocumentNotFound, m.name, e.ID())
	}

	return err
}

func (m *Model) hydrate(docs []document.Document, b *tenancy.Binding) []*Entity {
	entities := make([]*Entity, 0, len(docs))
	for _, doc := range docs {
		entities = append(entities, newEntity(m.variantFor(doc), doc, b, false))
	}
	return entities
}
