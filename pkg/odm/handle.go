package odm

import (
	"context"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
)

// Handle is the set of operations available on a model. It is implemented
// by *Model, which operates on the whole collection, and by the handles
// returned from Model.ByTenant, which scope every operation to one tenant.
type Handle interface {
	Name() string

	New(fields document.Document) *Entity
	Create(ctx context.Context, docs ...document.Document) ([]*Entity, error)
	InsertMany(ctx context.Context, docs []document.Document) ([]*Entity, error)

	Find(ctx context.Context, filter document.Filter, opts ...QueryOption) ([]*Entity, error)
	FindOne(ctx context.Context, filter document.Filter, opts ...QueryOption) (*Entity, error)
	FindByID(ctx context.Context, id any, opts ...QueryOption) (*Entity, error)
	Count(ctx context.Context, filter document.Filter) (int64, error)

	FindOneAndRemove(ctx context.Context, filter document.Filter) (*Entity, error)
	FindOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (*Entity, error)
	UpdateOne(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (store.UpdateResult, error)
	UpdateMany(ctx context.Context, filter document.Filter, update document.Update, opts ...UpdateOption) (store.UpdateResult, error)

	DeleteOne(ctx context.Context, filter document.Filter) (int64, error)
	DeleteMany(ctx context.Context, filter document.Filter) (int64, error)
}
