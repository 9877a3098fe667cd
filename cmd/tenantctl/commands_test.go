package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/store/memory"
	"github.com/diwise/tenant-store/pkg/tenancy"
	"github.com/matryer/is"
)

func TestCountPerCollection(t *testing.T) {
	is, ctx, tgt := testSetup(t)

	out := &bytes.Buffer{}
	is.NoErr(count(ctx, tgt, out))

	is.Equal(out.String(), "boats\t2\nowners\t1\ntotal\t3\n")
}

func TestListAsJSONLines(t *testing.T) {
	is, ctx, tgt := testSetup(t)

	out := &bytes.Buffer{}
	is.NoErr(list(ctx, tgt, 1, out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	is.Equal(len(lines), 2) // one per collection because of the limit

	line := struct {
		Collection string            `json:"collection"`
		Document   document.Document `json:"document"`
	}{}
	is.NoErr(json.Unmarshal([]byte(lines[0]), &line))
	is.Equal(line.Collection, "boats")
	is.Equal(line.Document["tenantId"], "acme")
}

func TestPurgeLeavesOtherTenants(t *testing.T) {
	is, ctx, tgt := testSetup(t)

	out := &bytes.Buffer{}
	is.NoErr(purge(ctx, tgt, out))
	is.Equal(out.String(), "boats\t2\nowners\t1\ntotal\t3\n")

	n, err := tgt.collections[0].Count(ctx, nil)
	is.NoErr(err)
	is.Equal(n, int64(1)) // the boat of the other tenant remains
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	is := is.New(t)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"purge", "--tenant", "acme", "--confirm", "other"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "refusing to purge"))
}

func TestTenantIsRequired(t *testing.T) {
	is := is.New(t)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"count", "--tenant", ""})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "--tenant is required"))
}

func TestDefaultTenantTypeMatchesNumericTenants(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	items := memory.New().Collection("items")
	is.NoErr(items.InsertMany(ctx, []document.Document{
		tenancy.New().Bind(1).Stamp(document.Document{"_id": "1"}),
		tenancy.New().Bind(1).Stamp(document.Document{"_id": "2"}),
		tenancy.New().Bind(2).Stamp(document.Document{"_id": "3"}),
	}))

	b, err := newBinding("1", "tenantId", defaultTenantType)
	is.NoErr(err)
	is.Equal(b.Value, int64(1))

	out := &bytes.Buffer{}
	is.NoErr(count(ctx, target{collections: []store.Collection{items}, binding: b}, out))
	is.Equal(out.String(), "items\t2\ntotal\t2\n") // should match tenants stamped as numbers

	b, err = newBinding("1", "tenantId", "string")
	is.NoErr(err)
	is.Equal(b.Value, "1")

	b, err = newBinding("acme", "tenantId", defaultTenantType)
	is.NoErr(err)
	is.Equal(b.Value, "acme")
}

func testSetup(t *testing.T) (*is.I, context.Context, target) {
	is := is.New(t)
	ctx := context.Background()

	driver := memory.New()
	boats := driver.Collection("boats")
	owners := driver.Collection("owners")

	is.NoErr(boats.InsertMany(ctx, []document.Document{
		{"_id": "1", "tenantId": "acme", "name": "a"},
		{"_id": "2", "tenantId": "acme", "name": "b"},
		{"_id": "3", "tenantId": "other", "name": "c"},
	}))
	is.NoErr(owners.InsertOne(ctx, document.Document{"_id": "4", "tenantId": "acme", "name": "Ann"}))

	return is, ctx, target{
		collections: []store.Collection{boats, owners},
		binding:     tenancy.New().Bind("acme"),
	}
}
