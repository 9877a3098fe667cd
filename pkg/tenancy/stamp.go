package tenancy

import (
	"github.com/diwise/tenant-store/pkg/document"
)

// Stamp sets the tenant field of doc, overriding any value already present,
// and returns doc. A nil doc is replaced by a new document.
func Stamp(doc document.Document, key string, value any) document.Document {
	if doc == nil {
		doc = document.Document{}
	}

	for k, v := range AssignmentFragment(key, value) {
		doc[k] = v
	}

	return doc
}
