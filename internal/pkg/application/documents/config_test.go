package documents

import (
	"strings"
	"testing"

	"github.com/diwise/tenant-store/pkg/odm"
	"github.com/diwise/tenant-store/pkg/store/memory"
	"github.com/matryer/is"
)

func TestLoadConfiguration(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader(configYaml))
	is.NoErr(err)

	is.Equal(len(cfg.Tenants), 2)
	is.Equal(cfg.Tenants[1].ID, "acme")
	is.Equal(len(cfg.Collections), 2)

	boat := cfg.Collections[1]
	is.Equal(boat.Name, "Boat")
	is.Equal(boat.Collection, "boats")
	is.True(boat.Tenancy != nil)
	is.Equal(boat.Tenancy.TenantIDType, "string")
	is.Equal(boat.Fields[1].Ref, "Owner")
	is.Equal(boat.Discriminators[0].Name, "Sailboat")
}

func TestCompileRegistersModelsAndDiscriminators(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader(configYaml))
	is.NoErr(err)

	models, err := cfg.compile(odm.NewRegistry(memory.New()))
	is.NoErr(err)

	is.Equal(len(models), 3)
	is.Equal(models["Boat"].Collection().Name(), "boats")
	is.Equal(models["Sailboat"].Collection().Name(), "boats") // should share the collection of the base model
	is.Equal(models["Owner"].TenantIDKey(), "tenantId")
	is.Equal(models["Boat"].Discriminators(), []string{"Sailboat"})
}

func TestCompileFailsOnUnknownFieldType(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader(`
collections:
  - name: Thing
    fields:
      - name: size
        type: huge
`))
	is.NoErr(err)

	_, err = cfg.compile(odm.NewRegistry(memory.New()))
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "collection Thing"))
}

func TestCompileFailsOnUnknownTenantIDType(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader(`
collections:
  - name: Thing
    tenancy:
      tenantIdType: hex
`))
	is.NoErr(err)

	_, err = cfg.compile(odm.NewRegistry(memory.New()))
	is.True(err != nil)
}

func TestCompileFailsOnDuplicateModel(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader(`
collections:
  - name: Thing
  - name: Thing
`))
	is.NoErr(err)

	_, err = cfg.compile(odm.NewRegistry(memory.New()))
	is.True(err != nil)
}

const configYaml string = `
tenants:
  - id: default
    name: Default
  - id: acme
    name: Acme Boats
collections:
  - name: Owner
    tenancy:
      tenantIdType: string
    fields:
      - name: name
        type: string
        required: true
    indexes:
      - name: name
        keys: [name]
        unique: true
  - name: Boat
    collection: boats
    tenancy:
      tenantIdType: string
    fields:
      - name: name
        type: string
        required: true
      - name: owner
        type: objectid
        ref: Owner
    discriminators:
      - name: Sailboat
        fields:
          - name: mast
            type: number
`
