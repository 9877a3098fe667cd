package documents

import (
	"fmt"
	"io"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/odm"
	"github.com/diwise/tenant-store/pkg/schema"
	"github.com/diwise/tenant-store/pkg/tenancy"
	yaml "gopkg.in/yaml.v2"
)

type Tenant struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type FieldConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required"`
	Array    bool   `yaml:"array"`
	Ref      string `yaml:"ref"`
}

type IndexConfig struct {
	Name   string   `yaml:"name"`
	Keys   []string `yaml:"keys"`
	Unique bool     `yaml:"unique"`
}

type TenancyConfig struct {
	Enabled           *bool  `yaml:"enabled"`
	TenantIDKey       string `yaml:"tenantIdKey"`
	TenantIDType      string `yaml:"tenantIdType"`
	RequireTenantID   bool   `yaml:"requireTenantId"`
	Accessors         *bool  `yaml:"accessors"`
	IndexesWithTenant *bool  `yaml:"indexesWithTenant"`
}

type DiscriminatorConfig struct {
	Name   string        `yaml:"name"`
	Fields []FieldConfig `yaml:"fields"`
}

type CollectionConfig struct {
	Name             string                `yaml:"name"`
	Collection       string                `yaml:"collection"`
	Strict           *bool                 `yaml:"strict"`
	DiscriminatorKey string                `yaml:"discriminatorKey"`
	Tenancy          *TenancyConfig        `yaml:"tenancy"`
	Fields           []FieldConfig         `yaml:"fields"`
	Indexes          []IndexConfig         `yaml:"indexes"`
	Discriminators   []DiscriminatorConfig `yaml:"discriminators"`
}

type Config struct {
	Tenants     []Tenant           `yaml:"tenants"`
	Collections []CollectionConfig `yaml:"collections"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

func (tc *TenancyConfig) options() ([]tenancy.Option, error) {
	options := []tenancy.Option{tenancy.RequireTenantID(tc.RequireTenantID)}

	if tc.Enabled != nil {
		options = append(options, tenancy.Enabled(*tc.Enabled))
	}

	if tc.TenantIDKey != "" {
		options = append(options, tenancy.TenantIDKey(tc.TenantIDKey))
	}

	if tc.TenantIDType != "" {
		t, err := document.ParseFieldType(tc.TenantIDType)
		if err != nil {
			return nil, err
		}
		options = append(options, tenancy.TenantIDType(t))
	}

	if tc.Accessors != nil {
		options = append(options, tenancy.Accessors(*tc.Accessors))
	}

	if tc.IndexesWithTenant != nil {
		options = append(options, tenancy.IndexesWithTenant(*tc.IndexesWithTenant))
	}

	return options, nil
}

func fields(configs []FieldConfig) ([]schema.Field, error) {
	result := make([]schema.Field, 0, len(configs))

	for _, fc := range configs {
		t, err := document.ParseFieldType(fc.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fc.Name, err)
		}

		options := []schema.FieldOption{}
		if fc.Required {
			options = append(options, schema.Required())
		}
		if fc.Array {
			options = append(options, schema.Array())
		}
		if fc.Ref != "" {
			options = append(options, schema.Ref(fc.Ref))
		}

		result = append(result, schema.NewField(fc.Name, t, options...))
	}

	return result, nil
}

// compile registers a model, and the discriminators of it, for every
// configured collection
func (cfg *Config) compile(registry *odm.Registry) (map[string]*odm.Model, error) {
	models := map[string]*odm.Model{}

	for _, cc := range cfg.Collections {
		f, err := fields(cc.Fields)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", cc.Name, err)
		}

		options := []schema.Option{schema.Fields(f...), schema.DiscriminatorKey(cc.DiscriminatorKey)}

		if cc.Strict != nil {
			options = append(options, schema.Strict(*cc.Strict))
		}

		for _, idx := range cc.Indexes {
			options = append(options, schema.Index(idx.Name, idx.Unique, idx.Keys...))
		}

		if cc.Tenancy != nil {
			to, err := cc.Tenancy.options()
			if err != nil {
				return nil, fmt.Errorf("collection %s: %w", cc.Name, err)
			}
			options = append(options, schema.WithTenancy(tenancy.New(to...)))
		}

		modelOptions := []odm.ModelOption{}
		if cc.Collection != "" {
			modelOptions = append(modelOptions, odm.CollectionName(cc.Collection))
		}

		m, err := registry.Model(cc.Name, schema.New(options...), modelOptions...)
		if err != nil {
			return nil, err
		}
		models[cc.Name] = m

		for _, dc := range cc.Discriminators {
			df, err := fields(dc.Fields)
			if err != nil {
				return nil, fmt.Errorf("discriminator %s of %s: %w", dc.Name, cc.Name, err)
			}

			d, err := m.Discriminator(dc.Name, schema.New(schema.Fields(df...)))
			if err != nil {
				return nil, err
			}
			models[dc.Name] = d
		}
	}

	return models, nil
}
