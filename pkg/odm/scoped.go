package odm

import (
	"context"
	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/tenancy"
)

// tenantHandle wraps a model and scopes every operation to one tenant. It
// holds no state besides the model and the binding and is safe to share.
type tenantHandle struct {
	model   *Model
	binding tenancy.Binding
}

func (h *tenantHandle) Name() string {
	return h.model.name
}

func (h *tenantHandle) New(fields document.Document) *Entity {
	return h.model.construct(fields, &h.binding)
}

func (h *tenantHandle) Create(ctx context.Context, docs ...document.Document) ([]*Entity, error) {
	return h.model.create(ctx, docs, &h.binding)
}

func (h *tenantHandle) InsertMany(ctx context.Context, docs []document.Document) ([]*Entity, error) {
	return h.model.insertMany(ctx, docs, &h.binding)
}

func (h *tenantHandle) Find(ctx context.Context, filter document.Filter, opts ...QueryOption) ([]*Entity, error) {
	scoped := h.filter(ctx, "find", filter)
	return h.model.find(ctx, scoped, &h.binding, opts...)
}

func (h *tenantHandle) FindOne(ctx context.Context, filter document.Filter, opts ...QueryOption) (*Entity, error) {
	scoped := h.filter(ctx, "find-one", filter)
	return h.model.findOne(ctx, scoped, &h.binding, opts...)
}

func (h *tenantHandle) FindByID(ctx context.Context, id any, opts ...QueryOption) (*Entity, error) {
	return h.FindOne(ctx, document.Filter{document.IDKey: id}, opts...)
}

func (h *tenantHandle) Count(ctx context.Context, filter document.Filter) (int64, error) {
	scoped := h.filter(ctx, "count", filter)
	return h.model.count(ctx, scoped, &h.binding)
}

func (h *tenantHandle) FindOneAndRemove(ctx context.Context, filter document.Filter) (*Entity, error) {
	scoped := h.filter(ctx, "find-one-and-remove", filter)
	return h.model.findOneAndRemove(ctx, scoped, &h.binding)
}

func (h *tenantHandle) FindOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (*Entity, error) {
	scoped := h.filter(ctx, "find-one-and-update", filter)
	return h.model.findOneAndUpdate(ctx, scoped, h.update(update, opts), &h.binding, opts...)
}

func (h *tenantHandle) UpdateOne(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (store.UpdateResult, error) {
	scoped := h.filter(ctx, "update-one", filter)
	return h.model.update(ctx, "update-one", scoped, h.update(update, opts), &h.binding, h.model.collection.UpdateOne, opts...)
}

func (h *tenantHandle) UpdateMany(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (store.UpdateResult, error) {
	scoped := h.filter(ctx, "update-many", filter)
	return h.model.update(ctx, "update-many", scoped, h.update(update, opts), &h.binding, h.model.collection.UpdateMany, opts...)
}

func (h *tenantHandle) DeleteOne(ctx context.Context, filter document.Filter) (int64, error) {
	scoped := h.filter(ctx, "delete-one", filter)
	return h.model.delete(ctx, "delete-one", scoped, &h.binding, h.model.collection.DeleteOne)
}

func (h *tenantHandle) DeleteMany(ctx context.Context, filter document.Filter) (int64, error) {
	scoped := h.filter(ctx, "delete-many", filter)
	return h.model.delete(ctx, "delete-many", scoped, &h.binding, h.model.collection.DeleteMany)
}

func (h *tenantHandle) filter(ctx context.Context, operation string, filter document.Filter) document.Filter {
	scoped := h.binding.Filter(filter)

	logging.GetFromContext(ctx).Debug(
		"tenant scoped operation",
		slog.String("operation", operation),
		slog.String("collection", h.model.collection.Name()),
		slog.Any("tenant", h.binding.Value),
		slog.Any("filter", scoped),
	)

	return scoped
}

func (h *tenantHandle) update(update document.Update, opts []UpdateOption) document.Update {
	return h.binding.Update(update, updateOptions(opts).Overwrite)
}
