package tenancy

import (
	"github.com/diwise/tenant-store/pkg/document"
)

// ScopeFilter returns a copy of filter where the top level value of key is
// value. A caller supplied value for key, plain or operator based, is
// discarded. Nested logical operators are kept as is since the top level
// conjunct already restricts every match to the tenant.
func ScopeFilter(filter document.Filter, key string, value any) document.Filter {
	scoped := make(document.Filter, len(filter)+1)

	for k, v := range filter {
		if k != key {
			scoped[k] = v
		}
	}

	for k, v := range FilterFragment(key, value) {
		scoped[k] = v
	}

	return scoped
}
