package tenancy

import (
	"github.com/diwise/tenant-store/pkg/document"
)

// FilterFragment returns the equality predicate {key: value}
func FilterFragment(key string, value any) document.Filter {
	return document.Filter{key: value}
}

// AssignmentFragment returns the field assignment {key: value}
func AssignmentFragment(key string, value any) document.Document {
	return document.Document{key: value}
}
