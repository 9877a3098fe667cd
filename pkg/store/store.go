package store

import (
	"context"

	"github.com/diwise/tenant-store/pkg/document"
)

//go:generate moq -rm -out storetest/collection_mock.go -pkg storetest . Collection

// Driver hands out collections of a document store
type Driver interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}

// Collection is the set of operations a document store must provide. Every
// operation either succeeds with its result or fails with an error, no
// match is not an error.
type Collection interface {
	Name() string

	Find(ctx context.Context, filter document.Filter, opts FindOptions) ([]document.Document, error)
	// FindOne returns nil, nil when no document matches
	FindOne(ctx context.Context, filter document.Filter, opts FindOptions) (document.Document, error)
	Count(ctx context.Context, filter document.Filter) (int64, error)

	FindOneAndDelete(ctx context.Context, filter document.Filter) (document.Document, error)
	FindOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, opts UpdateOptions) (document.Document, error)

	UpdateOne(ctx context.Context, filter document.Filter, update document.Update, opts UpdateOptions) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter document.Filter, update document.Update, opts UpdateOptions) (UpdateResult, error)

	DeleteOne(ctx context.Context, filter document.Filter) (int64, error)
	DeleteMany(ctx context.Context, filter document.Filter) (int64, error)

	InsertOne(ctx context.Context, doc document.Document) error
	// InsertMany inserts all documents or fails. Drivers that can not roll
	// back keep the documents inserted before the failing one.
	InsertMany(ctx context.Context, docs []document.Document) error

	EnsureIndex(ctx context.Context, index Index) error
}

type SortField struct {
	Key        string
	Descending bool
}

type FindOptions struct {
	Sort  []SortField
	Skip  int64
	Limit int64
}

type UpdateOptions struct {
	// Overwrite replaces matched documents with the update document
	Overwrite bool
	// Upsert inserts a document built from the filter and the update when
	// nothing matches
	Upsert bool
	// ReturnNew makes FindOneAndUpdate return the updated document
	ReturnNew bool
}

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    any
}

type Index struct {
	Name   string   `msgpack:"name" yaml:"name"`
	Keys   []string `msgpack:"keys" yaml:"keys"`
	Unique bool     `msgpack:"unique" yaml:"unique"`
}
