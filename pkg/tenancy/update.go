package tenancy

import (
	"github.com/diwise/tenant-store/pkg/document"
)

// ScopeUpdate returns a copy of update that can not move a document to
// another tenant.
//
// Unless overwrite is set, key is removed from the top level and from every
// operator sub document, including $rename targets, before key: value is added as a top level
// assignment. Replacement documents are left as is apart from key being set
// at the top level. Malformed updates are passed through for the store to
// reject.
func ScopeUpdate(update document.Update, key string, value any, overwrite bool) document.Update {
	scoped := make(document.Update, len(update)+1)

	for k, v := range update {
		if overwrite {
			scoped[k] = v
			continue
		}

		if k == key {
			continue
		}

		if document.IsOperator(k) {
			if operand, ok := document.AsMap(v); ok && touchesKey(k, operand, key) {
				stripped := make(map[string]any, len(operand))
				for field, fv := range operand {
					if !assigns(k, field, fv, key) {
						stripped[field] = fv
					}
				}
				v = stripped
			}
		}

		scoped[k] = v
	}

	for k, v := range AssignmentFragment(key, value) {
		scoped[k] = v
	}

	return scoped
}

func touchesKey(operator string, operand map[string]any, key string) bool {
	for field, v := range operand {
		if assigns(operator, field, v, key) {
			return true
		}
	}
	return false
}

// assigns reports if the operand entry field: v writes to key
func assigns(operator, field string, v any, key string) bool {
	if field == key {
		return true
	}
	if operator == document.OpRename {
		target, ok := v.(string)
		return ok && target == key
	}
	return false
}
