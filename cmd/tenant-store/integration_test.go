package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diwise/tenant-store/pkg/client"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/problems"
	"github.com/diwise/tenant-store/pkg/store/memory"

	"github.com/matryer/is"
)

func DefaultTestFlags() FlagMap {
	return FlagMap{
		listenAddress: "",  // listen on all ipv4 and ipv6 interfaces
		servicePort:   "0", //
		controlPort:   "",  // control port disabled by default

		storageType: StorageMemory,

		logFormat: "json",
	}
}

func TestIntegrateCreateAndQueryDocuments(t *testing.T) {
	is := is.New(t)
	ctx, cancelTest := context.WithCancel(t.Context())

	app, err := initialize(ctx, DefaultTestFlags(), newTestConfig(""))
	is.NoErr(err)

	err = app.Run(ctx, func(ctx context.Context, appConfig *AppConfig) error {
		defer cancelTest()

		storeURL := "http://127.0.0.1:" + appConfig.publicPort
		acme := client.NewTenantStoreClient(storeURL, client.Tenant("acme"))
		others := client.NewTenantStoreClient(storeURL)

		owner, err := acme.CreateDocument(ctx, "Owner", document.Document{"name": "Ann"})
		is.NoErr(err)
		is.Equal(owner.Document()["tenantId"], "acme")

		_, err = acme.CreateDocuments(ctx, "Boat", []document.Document{
			{"name": "Nautilus", "owner": owner.Document().ID()},
			{"name": "Argo"},
		})
		is.NoErr(err)

		_, err = others.CreateDocument(ctx, "Boat", document.Document{"name": "Vega"})
		is.NoErr(err)

		boats, err := acme.QueryDocuments(ctx, "Boat", client.SortBy("name"), client.Populate("owner"))
		is.NoErr(err)
		is.Equal(len(boats), 2)
		is.Equal(boats[0]["name"], "Argo")
		is.Equal(boats[1]["owner"].(map[string]any)["name"], "Ann")

		n, err := others.CountDocuments(ctx, "Boat")
		is.NoErr(err)
		is.Equal(n, int64(1))

		_, err = others.RetrieveDocument(ctx, "Owner", owner.Document().ID().(string))
		is.True(errors.Is(err, problems.ErrNotFound)) // should not see documents of other tenants

		_, err = acme.CreateDocument(ctx, "Owner", document.Document{"name": "Ann"})
		is.True(errors.Is(err, problems.ErrAlreadyExists))

		_, err = client.NewTenantStoreClient(storeURL, client.Tenant("nobody")).CountDocuments(ctx, "Boat")
		is.True(errors.Is(err, problems.ErrUnknownTenant))

		return nil
	})
	is.NoErr(err)
}

func TestIntegrateUpdateAndDeleteDocuments(t *testing.T) {
	is := is.New(t)
	ctx, cancelTest := context.WithCancel(t.Context())

	app, err := initialize(ctx, DefaultTestFlags(), newTestConfig(""))
	is.NoErr(err)

	err = app.Run(ctx, func(ctx context.Context, appConfig *AppConfig) error {
		defer cancelTest()

		c := client.NewTenantStoreClient("http://127.0.0.1:"+appConfig.publicPort, client.Tenant("acme"))

		created, err := c.CreateDocuments(ctx, "Boat", []document.Document{{"name": "a"}, {"name": "b"}})
		is.NoErr(err)
		id := created[0].ID().(string)

		merged, err := c.MergeDocument(ctx, "Boat", id, document.Update{"name": "c", "tenantId": "default"})
		is.NoErr(err)
		is.Equal(merged["name"], "c")
		is.Equal(merged["tenantId"], "acme")

		result, err := c.UpdateDocuments(ctx, "Boat", document.Update{"$set": map[string]any{"name": "z"}})
		is.NoErr(err)
		is.Equal(result.MatchedCount, int64(2))

		_, err = c.UpdateDocuments(ctx, "Boat", document.Update{"name": "y"}, client.Overwrite())
		is.True(errors.Is(err, problems.ErrBadRequest))

		is.NoErr(c.DeleteDocument(ctx, "Boat", id))

		err = c.DeleteDocument(ctx, "Boat", id)
		is.True(errors.Is(err, problems.ErrNotFound))

		return nil
	})
	is.NoErr(err)
}

func TestIntegrateMetricsAreServed(t *testing.T) {
	is := is.New(t)
	ctx, cancelTest := context.WithCancel(t.Context())

	app, err := initialize(ctx, DefaultTestFlags(), newTestConfig(""))
	is.NoErr(err)

	err = app.Run(ctx, func(ctx context.Context, appConfig *AppConfig) error {
		defer cancelTest()

		response, _ := testRequest(appConfig.publicPort, http.MethodGet, "/api/v1/collections/Boat/documents", nil)
		is.Equal(response.StatusCode, http.StatusOK)

		response, body := testRequest(appConfig.publicPort, http.MethodGet, "/debug/metrics", nil)
		is.Equal(response.StatusCode, http.StatusOK)
		is.True(strings.Contains(body, `tenant_store_requests_total{operation="query",tenant="default"} 1`))

		return nil
	})
	is.NoErr(err)
}

func TestIntegrateSnapshotIsRestored(t *testing.T) {
	is := is.New(t)
	snapshot := filepath.Join(t.TempDir(), "snapshot.msgpack")

	ctx, cancelTest := context.WithCancel(t.Context())

	app, err := initialize(ctx, DefaultTestFlags(), newTestConfig(snapshot))
	is.NoErr(err)

	err = app.Run(ctx, func(ctx context.Context, appConfig *AppConfig) error {
		defer cancelTest()

		c := client.NewTenantStoreClient("http://127.0.0.1:"+appConfig.publicPort, client.Tenant("acme"))
		_, err := c.CreateDocument(ctx, "Owner", document.Document{"name": "Ann"})
		return err
	})
	is.NoErr(err)

	ctx, cancelTest = context.WithCancel(t.Context())

	app, err = initialize(ctx, DefaultTestFlags(), newTestConfig(snapshot))
	is.NoErr(err)

	err = app.Run(ctx, func(ctx context.Context, appConfig *AppConfig) error {
		defer cancelTest()

		c := client.NewTenantStoreClient("http://127.0.0.1:"+appConfig.publicPort, client.Tenant("acme"))
		n, err := c.CountDocuments(ctx, "Owner", client.Filter(document.Filter{"name": "Ann"}))
		is.NoErr(err)
		is.Equal(n, int64(1))

		return nil
	})
	is.NoErr(err)
}

func testRequest(port, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, "http://127.0.0.1:"+port+path, body)
	resp, _ := http.DefaultClient.Do(req)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}

func newTestConfig(snapshot string) *AppConfig {
	return &AppConfig{
		documentsConfig: io.NopCloser(bytes.NewBufferString(configFile)),
		driver:          memory.New(),
		snapshot:        snapshot,
		registry:        newRegistry(),
	}
}

const configFile string = `
tenants:
  - id: default
    name: Kommunen
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
    tenancy:
      tenantIdType: string
    fields:
      - name: name
        type: string
        required: true
      - name: owner
        type: objectid
        ref: Owner
`
