package odm

import (
	"github.com/diwise/tenant-store/pkg/store"
)

type QueryOption func(*query)

type query struct {
	populate []string
	find     store.FindOptions
}

func newQuery(options []QueryOption) query {
	q := query{}
	for _, option := range options {
		option(&q)
	}
	return q
}

// Populate replaces the ids stored in the given reference fields with the
// documents they refer to
func Populate(paths ...string) QueryOption {
	return func(q *query) {
		q.populate = append(q.populate, paths...)
	}
}

func SortBy(key string) QueryOption {
	return func(q *query) {
		q.find.Sort = append(q.find.Sort, store.SortField{Key: key})
	}
}

func SortByDescending(key string) QueryOption {
	return func(q *query) {
		q.find.Sort = append(q.find.Sort, store.SortField{Key: key, Descending: true})
	}
}

func Skip(n int64) QueryOption {
	return func(q *query) {
		q.find.Skip = n
	}
}

func Limit(n int64) QueryOption {
	return func(q *query) {
		q.find.Limit = n
	}
}

type UpdateOption func(*store.UpdateOptions)

// Overwrite replaces the matched document instead of applying operators
func Overwrite() UpdateOption {
	return func(o *store.UpdateOptions) {
		o.Overwrite = true
	}
}

func Upsert() UpdateOption {
	return func(o *store.UpdateOptions) {
		o.Upsert = true
	}
}

func ReturnNew() UpdateOption {
	return func(o *store.UpdateOptions) {
		o.ReturnNew = true
	}
}

func updateOptions(options []UpdateOption) store.UpdateOptions {
	o := store.UpdateOptions{}
	for _, option := range options {
		option(&o)
	}
	return o
}
