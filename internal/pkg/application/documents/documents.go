package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/tenant-store/internal/pkg/application/subscriptions"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/odm"
	"github.com/diwise/tenant-store/pkg/problems"
	"github.com/diwise/tenant-store/pkg/schema"
	"github.com/diwise/tenant-store/pkg/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate moq -rm -out documentmanager_mock.go . DocumentManager

type DocumentManager interface {
	CreateDocuments(ctx context.Context, tenant, collection string, docs []document.Document) ([]document.Document, error)
	QueryDocuments(ctx context.Context, tenant, collection string, filter document.Filter, params QueryParams) ([]document.Document, error)
	CountDocuments(ctx context.Context, tenant, collection string, filter document.Filter) (int64, error)
	RetrieveDocument(ctx context.Context, tenant, collection, id string, populate []string) (document.Document, error)
	MergeDocument(ctx context.Context, tenant, collection, id string, update document.Update) (document.Document, error)
	ReplaceDocument(ctx context.Context, tenant, collection, id string, doc document.Document) (document.Document, error)
	UpdateDocuments(ctx context.Context, tenant, collection string, filter document.Filter, update document.Update, overwrite bool) (store.UpdateResult, error)
	DeleteDocument(ctx context.Context, tenant, collection, id string) error

	Tenants() []string

	Start() error
	Stop() error
}

// QueryParams controls paging, ordering and population of query results.
// Sort keys prefixed with a minus sign sort in descending order.
type QueryParams struct {
	Populate []string
	Sort     []string
	Limit    int64
	Offset   int64
}

func (p QueryParams) options() []odm.QueryOption {
	options := []odm.QueryOption{}

	if len(p.Populate) > 0 {
		options = append(options, odm.Populate(p.Populate...))
	}

	for _, key := range p.Sort {
		if desc, ok := strings.CutPrefix(key, "-"); ok {
			options = append(options, odm.SortByDescending(desc))
		} else {
			options = append(options, odm.SortBy(key))
		}
	}

	if p.Limit > 0 {
		options = append(options, odm.Limit(p.Limit))
	}

	if p.Offset > 0 {
		options = append(options, odm.Skip(p.Offset))
	}

	return options
}

const (
	TraceAttributeTenant     string = "tenant"
	TraceAttributeCollection string = "collection"
)

var tracer = otel.Tracer("tenant-store/documents")

type documentsApp struct {
	tenants  map[string]Tenant
	registry *odm.Registry
	models   map[string]*odm.Model
	notifier subscriptions.Notifier
}

// New compiles the configured collections into models of the store and
// creates their indexes
func New(ctx context.Context, cfg Config, driver store.Driver, notifier subscriptions.Notifier) (DocumentManager, error) {
	registry := odm.NewRegistry(driver)

	models, err := cfg.compile(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to compile collections: %w", err)
	}

	if err = registry.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	app := &documentsApp{
		tenants:  map[string]Tenant{},
		registry: registry,
		models:   models,
		notifier: notifier,
	}

	for _, tenant := range cfg.Tenants {
		app.tenants[tenant.ID] = tenant
	}

	logging.GetFromContext(ctx).Info("document collections loaded", slog.Int("models", len(models)), slog.Int("tenants", len(app.tenants)))

	return app, nil
}

func (app *documentsApp) startSpan(ctx context.Context, operation, tenant, collection string) (context.Context, trace.Span) {
	return tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String(TraceAttributeTenant, tenant),
		attribute.String(TraceAttributeCollection, collection),
	))
}

// handle returns the tenant scoped handle of a collection
func (app *documentsApp) handle(tenant, collection string) (odm.Handle, error) {
	if _, ok := app.tenants[tenant]; !ok {
		return nil, problems.NewUnknownTenantError(tenant)
	}

	m, ok := app.models[collection]
	if !ok {
		return nil, problems.NewUnknownCollectionError(collection)
	}

	return m.ByTenant(tenant), nil
}

func (app *documentsApp) CreateDocuments(ctx context.Context, tenant, collection string, docs []document.Document) (result []document.Document, err error) {
	ctx, span := app.startSpan(ctx, "create-documents", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	h, err := app.handle(tenant, collection)
	if err != nil {
		return nil, err
	}

	var entities []*odm.Entity

	if len(docs) == 1 {
		entities, err = h.Create(ctx, docs[0])
	} else {
		entities, err = h.InsertMany(ctx, docs)
	}

	if err != nil {
		return nil, mapError(err)
	}

	result = expand(entities)

	for _, doc := range result {
		app.notify(func(n subscriptions.Notifier) { n.DocumentCreated(ctx, tenant, collection, doc) })
	}

	return result, nil
}

func (app *documentsApp) QueryDocuments(ctx context.Context, tenant, collection string, filter document.Filter, params QueryParams) (result []document.Document, err error) {
	ctx, span := app.startSpan(ctx, "query-documents", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	h, err := app.handle(tenant, collection)
	if err != nil {
		return nil, err
	}

	entities, err := h.Find(ctx, filter, params.options()...)
	if err != nil {
		return nil, mapError(err)
	}

	return expand(entities), nil
}

func (app *documentsApp) CountDocuments(ctx context.Context, tenant, collection string, filter document.Filter) (n int64, err error) {
	ctx, span := app.startSpan(ctx, "count-documents", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	h, err := app.handle(tenant, collection)
	if err != nil {
		return 0, err
	}

	n, err = h.Count(ctx, filter)

	return n, mapError(err)
}

func (app *documentsApp) RetrieveDocument(ctx context.Context, tenant, collection, id string, populate []string) (result document.Document, err error) {
	ctx, span := app.startSpan(ctx, "retrieve-document", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	h, err := app.handle(tenant, collection)
	if err != nil {
		return nil, err
	}

	options := []odm.QueryOption{}
	if len(populate) > 0 {
		options = append(options, odm.Populate(populate...))
	}

	e, err := h.FindByID(ctx, id, options...)
	if err != nil {
		return nil, mapError(err)
	}

	if e == nil {
		return nil, notFound(collection, id)
	}

	return e.Expand(), nil
}

func (app *documentsApp) MergeDocument(ctx context.Context, tenant, collection, id string, update document.Update) (result document.Document, err error) {
	ctx, span := app.startSpan(ctx, "merge-document", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return app.updateByID(ctx, tenant, collection, id, update, odm.ReturnNew())
}

func (app *documentsApp) ReplaceDocument(ctx context.Context, tenant, collection, id string, doc document.Document) (result document.Document, err error) {
	ctx, span := app.startSpan(ctx, "replace-document", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return app.updateByID(ctx, tenant, collection, id, document.Update(doc), odm.ReturnNew(), odm.Overwrite())
}

func (app *documentsApp) updateByID(ctx context.Context, tenant, collection, id string, update document.Update, options ...odm.UpdateOption) (document.Document, error) {
	h, err := app.handle(tenant, collection)
	if err != nil {
		return nil, err
	}

	e, err := h.FindOneAndUpdate(ctx, document.Filter{document.IDKey: id}, update, options...)
	if err != nil {
		return nil, mapError(err)
	}

	if e == nil {
		return nil, notFound(collection, id)
	}

	result := e.Expand()

	app.notify(func(n subscriptions.Notifier) { n.DocumentUpdated(ctx, tenant, collection, result) })

	return result, nil
}

func (app *documentsApp) UpdateDocuments(ctx context.Context, tenant, collection string, filter document.Filter, update document.Update, overwrite bool) (result store.UpdateResult, err error) {
	ctx, span := app.startSpan(ctx, "update-documents", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	h, err := app.handle(tenant, collection)
	if err != nil {
		return result, err
	}

	options := []odm.UpdateOption{}
	if overwrite {
		options = append(options, odm.Overwrite())
	}

	result, err = h.UpdateMany(ctx, filter, update, options...)
	if err != nil {
		return store.UpdateResult{}, mapError(err)
	}

	logging.GetFromContext(ctx).Debug("documents updated", slog.String("collection", collection), slog.Int64("matched", result.MatchedCount), slog.Int64("modified", result.ModifiedCount))

	return result, nil
}

func (app *documentsApp) DeleteDocument(ctx context.Context, tenant, collection, id string) (err error) {
	ctx, span := app.startSpan(ctx, "delete-document", tenant, collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	h, err := app.handle(tenant, collection)
	if err != nil {
		return err
	}

	n, err := h.DeleteOne(ctx, document.Filter{document.IDKey: id})
	if err != nil {
		return mapError(err)
	}

	if n == 0 {
		return notFound(collection, id)
	}

	app.notify(func(nf subscriptions.Notifier) { nf.DocumentDeleted(ctx, tenant, collection, id) })

	return nil
}

// Tenants returns the ids of the configured tenants in sorted order
func (app *documentsApp) Tenants() []string {
	ids := make([]string, 0, len(app.tenants))
	for id := range app.tenants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (app *documentsApp) notify(fn func(subscriptions.Notifier)) {
	if app.notifier != nil {
		fn(app.notifier)
	}
}

func (app *documentsApp) Start() error {
	if app.notifier != nil {
		return app.notifier.Start()
	}

	return nil
}

func (app *documentsApp) Stop() error {
	if app.notifier != nil {
		return app.notifier.Stop()
	}

	return nil
}

func expand(entities []*odm.Entity) []document.Document {
	result := make([]document.Document, 0, len(entities))
	for _, e := range entities {
		result = append(result, e.Expand())
	}
	return result
}

func notFound(collection, id string) error {
	return problems.NewNotFoundError(fmt.Sprintf("no document with id %s found in %s", id, collection))
}

// mapError translates store and schema failures into the errors reported
// to API clients
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDuplicateKey):
		return problems.NewAlreadyExistsError(err.Error())
	case errors.Is(err, schema.ErrValidation),
		errors.Is(err, document.ErrCast),
		errors.Is(err, store.ErrInvalidUpdate),
		errors.Is(err, store.ErrReplaceMany),
		errors.Is(err, store.ErrUnsupported),
		errors.Is(err, odm.ErrNotAReference):
		return problems.NewBadRequestError(err.Error())
	case errors.Is(err, odm.ErrDocumentNotFound):
		return problems.NewNotFoundError(err.Error())
	}

	return err
}
