package tenancy

import (
	"github.com/diwise/tenant-store/pkg/document"
)

const DefaultTenantIDKey string = "tenantId"

// Config describes how a schema is scoped by tenant. A schema carries at most
// one Config and it must not be changed once a model has been compiled from it.
type Config struct {
	// TenantIDKey is the document field holding the tenant identifier
	TenantIDKey string
	// TenantIDType is the field type tenant values are cast to
	TenantIDType document.FieldType
	// Enabled turns tenant scoping on or off for the schema. A disabled
	// configuration makes ByTenant return the unscoped model.
	Enabled bool
	// Accessors exposes the tenant key and value on models and entities
	Accessors bool
	// RequireTenantID makes the tenant field mandatory on insert
	RequireTenantID bool
	// IndexesWithTenant prefixes unique indexes with the tenant field so that
	// uniqueness is enforced per tenant
	IndexesWithTenant bool
}

type Option func(*Config)

func TenantIDKey(key string) Option {
	return func(c *Config) {
		if key != "" {
			c.TenantIDKey = key
		}
	}
}

func TenantIDType(t document.FieldType) Option {
	return func(c *Config) {
		if t != "" {
			c.TenantIDType = t
		}
	}
}

func Enabled(enabled bool) Option {
	return func(c *Config) {
		c.Enabled = enabled
	}
}

func Accessors(enabled bool) Option {
	return func(c *Config) {
		c.Accessors = enabled
	}
}

func RequireTenantID(required bool) Option {
	return func(c *Config) {
		c.RequireTenantID = required
	}
}

func IndexesWithTenant(enabled bool) Option {
	return func(c *Config) {
		c.IndexesWithTenant = enabled
	}
}

func New(options ...Option) *Config {
	c := &Config{
		TenantIDKey:       DefaultTenantIDKey,
		TenantIDType:      document.TypeIdentifier,
		Enabled:           true,
		Accessors:         true,
		IndexesWithTenant: true,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// IsEnabled is safe to call on a nil Config
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}

func (c *Config) Bind(value any) Binding {
	return Binding{Key: c.TenantIDKey, Value: value}
}

// Binding pairs a tenant key with the tenant value a handle is bound to
type Binding struct {
	Key   string
	Value any
}

func (b Binding) Filter(filter document.Filter) document.Filter {
	return ScopeFilter(filter, b.Key, b.Value)
}

func (b Binding) Update(update document.Update, overwrite bool) document.Update {
	return ScopeUpdate(update, b.Key, b.Value, overwrite)
}

func (b Binding) Stamp(doc document.Document) document.Document {
	return Stamp(doc, b.Key, b.Value)
}
