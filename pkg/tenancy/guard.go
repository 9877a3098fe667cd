package tenancy

// Propagates reports whether the tenant scope of a query against the source
// schema should follow references into the target schema. Scope only
// propagates between tenant aware schemas that use the same tenant key.
func Propagates(source, target *Config) bool {
	if !source.IsEnabled() || !target.IsEnabled() {
		return false
	}

	return source.TenantIDKey == target.TenantIDKey
}
