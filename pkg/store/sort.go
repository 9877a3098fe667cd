package store

import (
	"sort"

	"github.com/diwise/tenant-store/pkg/document"
)

// SortDocuments orders docs in place. Missing values sort first and values
// that can not be ordered against each other keep their relative order.
func SortDocuments(docs []document.Document, fields []SortField) {
	if len(fields) == 0 {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range fields {
			cmp := compareField(docs[i], docs[j], f.Key)
			if cmp == 0 {
				continue
			}
			if f.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareField(a, b document.Document, key string) int {
	av, aok := a.Get(key)
	bv, bok := b.Get(key)

	switch {
	case (!aok || av == nil) && (!bok || bv == nil):
		return 0
	case !aok || av == nil:
		return -1
	case !bok || bv == nil:
		return 1
	}

	cmp, _ := document.Compare(av, bv)
	return cmp
}

// Page applies skip and limit to an already ordered result
func Page(docs []document.Document, opts FindOptions) []document.Document {
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(docs)) {
			return docs[:0]
		}
		docs = docs[opts.Skip:]
	}

	if opts.Limit > 0 && opts.Limit < int64(len(docs)) {
		docs = docs[:opts.Limit]
	}

	return docs
}
