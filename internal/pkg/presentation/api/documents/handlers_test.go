package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	application "github.com/diwise/tenant-store/internal/pkg/application/documents"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/problems"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
)

const basePath string = "/api/v1/collections/lifebuoys/documents"

func TestQueryDocuments(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.QueryDocumentsFunc = func(ctx context.Context, tenant, collection string, filter document.Filter, params application.QueryParams) ([]document.Document, error) {
		return []document.Document{{"_id": "a", "status": "on"}}, nil
	}

	resp, body := newTestRequest(is, ts, http.MethodGet, basePath+"?filter="+url.QueryEscape(`{"status":"on"}`)+"&sort=-name,age&limit=10&offset=5&populate=owner", nil)

	is.Equal(resp.StatusCode, http.StatusOK) // Check status code
	is.Equal(body, `[{"_id":"a","status":"on"}]`)

	call := app.QueryDocumentsCalls()[0]
	is.Equal(call.Tenant, DefaultTenant)
	is.Equal(call.Collection, "lifebuoys")
	is.Equal(call.Filter, document.Filter{"status": "on"})
	is.Equal(call.Params.Sort, []string{"-name", "age"})
	is.Equal(call.Params.Limit, int64(10))
	is.Equal(call.Params.Offset, int64(5))
	is.Equal(call.Params.Populate, []string{"owner"})
}

func TestQueryDocumentsUsesTenantHeader(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+basePath, nil)
	req.Header.Add(TenantHeader, "acme")
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get(TenantHeader), "acme")
	is.Equal(app.QueryDocumentsCalls()[0].Tenant, "acme")
}

func TestQueryDocumentsWithBadParameters(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodGet, basePath+"?filter=notjson", nil)
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = newTestRequest(is, ts, http.MethodGet, basePath+"?limit=-1", nil)
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	is.Equal(len(app.QueryDocumentsCalls()), 0)
}

func TestQueryUnknownTenantReturnsNotFound(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.QueryDocumentsFunc = func(context.Context, string, string, document.Filter, application.QueryParams) ([]document.Document, error) {
		return nil, problems.NewUnknownTenantError("unknown tenant nobody")
	}

	resp, body := newTestRequest(is, ts, http.MethodGet, basePath, nil)

	is.Equal(resp.StatusCode, http.StatusNotFound)
	is.Equal(resp.Header.Get("Content-Type"), problems.ProblemReportContentType)

	report := map[string]string{}
	is.NoErr(json.Unmarshal([]byte(body), &report))
	is.Equal(report["type"], problems.TypeUnknownTenant)
}

func TestCountDocuments(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.CountDocumentsFunc = func(context.Context, string, string, document.Filter) (int64, error) {
		return 17, nil
	}

	resp, body := newTestRequest(is, ts, http.MethodGet, basePath+"/count", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, `{"count":17}`)
	is.Equal(len(app.RetrieveDocumentCalls()), 0) // count must not be routed as an id
}

func TestCreateDocument(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodPost, basePath, bytes.NewBufferString(`{"name":"mybuoy"}`))

	is.Equal(resp.StatusCode, http.StatusCreated) // Check status code
	is.Equal(resp.Header.Get("Location"), basePath+"/mybuoy")
	is.Equal(body, `{"_id":"mybuoy","name":"mybuoy"}`)

	is.Equal(app.CreateDocumentsCalls()[0].Docs, []document.Document{{"name": "mybuoy"}})
}

func TestCreateManyDocuments(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodPost, basePath, bytes.NewBufferString(`[{"name":"a"},{"name":"b"}]`))

	is.Equal(resp.StatusCode, http.StatusCreated)
	is.Equal(resp.Header.Get("Location"), "")
	is.Equal(body, `[{"_id":"a","name":"a"},{"_id":"b","name":"b"}]`)
	is.Equal(len(app.CreateDocumentsCalls()[0].Docs), 2)
}

func TestCreateDocumentWithWrongContentTypeReturnsUnsupportedMediaType(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+basePath, bytes.NewBufferString(`{}`))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusUnsupportedMediaType) // Check status code
}

func TestCreateDocumentWithBadDataReturnsInvalidRequest(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodPost, basePath, bytes.NewBufferString("this is not my json"))
	is.Equal(resp.StatusCode, http.StatusBadRequest) // Check status code

	resp, _ = newTestRequest(is, ts, http.MethodPost, basePath, bytes.NewBufferString("[]"))
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	is.Equal(len(app.CreateDocumentsCalls()), 0)
}

func TestCreateDocumentCanHandleAlreadyExistsError(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.CreateDocumentsFunc = func(context.Context, string, string, []document.Document) ([]document.Document, error) {
		return nil, problems.NewAlreadyExistsError("duplicate key")
	}

	resp, _ := newTestRequest(is, ts, http.MethodPost, basePath, bytes.NewBufferString(`{"name":"mybuoy"}`))

	is.Equal(resp.StatusCode, http.StatusConflict) // Check status code
}

func TestCreateDocumentCanHandleInternalError(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.CreateDocumentsFunc = func(context.Context, string, string, []document.Document) ([]document.Document, error) {
		return nil, io.ErrUnexpectedEOF
	}

	resp, _ := newTestRequest(is, ts, http.MethodPost, basePath, bytes.NewBufferString(`{"name":"mybuoy"}`))

	is.Equal(resp.StatusCode, http.StatusInternalServerError) // Check status code
}

func TestUpdateDocuments(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodPatch, basePath+"?filter="+url.QueryEscape(`{"status":"off"}`)+"&overwrite=false", bytes.NewBufferString(`{"$set":{"status":"on"}}`))

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, `{"matchedCount":2,"modifiedCount":1}`)

	call := app.UpdateDocumentsCalls()[0]
	is.Equal(call.Filter, document.Filter{"status": "off"})
	is.Equal(call.Update, document.Update{"$set": map[string]any{"status": "on"}})
	is.True(!call.Overwrite)

	resp, _ = newTestRequest(is, ts, http.MethodPatch, basePath+"?overwrite=maybe", bytes.NewBufferString(`{}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestRetrieveDocument(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, body := newTestRequest(is, ts, http.MethodGet, basePath+"/mybuoy?populate=owner", nil)

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, `{"_id":"mybuoy"}`)

	call := app.RetrieveDocumentCalls()[0]
	is.Equal(call.Id, "mybuoy")
	is.Equal(call.Populate, []string{"owner"})
}

func TestRetrieveMissingDocumentReturnsNotFound(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.RetrieveDocumentFunc = func(context.Context, string, string, string, []string) (document.Document, error) {
		return nil, problems.NewNotFoundError("no document with id mybuoy found in lifebuoys")
	}

	resp, _ := newTestRequest(is, ts, http.MethodGet, basePath+"/mybuoy", nil)

	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestMergeAndReplaceDocument(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodPatch, basePath+"/mybuoy", bytes.NewBufferString(`{"status":"on"}`))
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(app.MergeDocumentCalls()[0].Update, document.Update{"status": "on"})

	resp, _ = newTestRequest(is, ts, http.MethodPut, basePath+"/mybuoy", bytes.NewBufferString(`{"name":"new"}`))
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(app.ReplaceDocumentCalls()[0].Doc, document.Document{"name": "new"})
	is.Equal(app.ReplaceDocumentCalls()[0].Id, "mybuoy")
}

func TestMergeWithBadRequestFromStore(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.MergeDocumentFunc = func(context.Context, string, string, string, document.Update) (document.Document, error) {
		return nil, problems.NewBadRequestError("cannot cast tall (string) to number")
	}

	resp, _ := newTestRequest(is, ts, http.MethodPatch, basePath+"/mybuoy", bytes.NewBufferString(`{"mast":"tall"}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestDeleteDocument(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	resp, _ := newTestRequest(is, ts, http.MethodDelete, basePath+"/mybuoy", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent)
	is.Equal(app.DeleteDocumentCalls()[0].Id, "mybuoy")
}

func newTestRequest(is *is.I, ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	req.Header.Add("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	is.NoErr(err) // failed to read response body

	return resp, string(bytes.TrimSpace(respBody))
}

func TestMetricsDoNotLabelUnknownTenants(t *testing.T) {
	is := is.New(t)
	r := chi.NewRouter()
	ts := httptest.NewServer(r)
	defer ts.Close()

	app := &application.DocumentManagerMock{
		TenantsFunc: func() []string {
			return []string{DefaultTenant, "acme"}
		},
		QueryDocumentsFunc: func(ctx context.Context, tenant, collection string, filter document.Filter, params application.QueryParams) ([]document.Document, error) {
			if tenant != DefaultTenant && tenant != "acme" {
				return nil, problems.NewUnknownTenantError(tenant)
			}
			return []document.Document{}, nil
		},
	}

	reg := prometheus.NewRegistry()
	is.NoErr(RegisterHandlers(context.Background(), r, nil, app, reg))

	for _, tenant := range []string{"acme", "made-up-1", "made-up-2", "made-up-3"} {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+basePath, nil)
		req.Header.Add(TenantHeader, tenant)
		resp, err := http.DefaultClient.Do(req)
		is.NoErr(err)
		resp.Body.Close()
	}

	families, err := reg.Gather()
	is.NoErr(err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "tenant_store_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "tenant" {
					counts[label.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}

	is.Equal(len(counts), 2) // should not create a series per tenant header value
	is.Equal(counts["acme"], float64(1))
	is.Equal(counts[UnknownTenantLabel], float64(3))
}

func setupTest(t *testing.T) (*is.I, *httptest.Server, *application.DocumentManagerMock) {
	is := is.New(t)
	r := chi.NewRouter()
	ts := httptest.NewServer(r)

	app := &application.DocumentManagerMock{
		TenantsFunc: func() []string {
			return []string{DefaultTenant, "acme"}
		},
		QueryDocumentsFunc: func(context.Context, string, string, document.Filter, application.QueryParams) ([]document.Document, error) {
			return []document.Document{}, nil
		},
		CountDocumentsFunc: func(context.Context, string, string, document.Filter) (int64, error) {
			return 0, nil
		},
		CreateDocumentsFunc: func(ctx context.Context, tenant, collection string, docs []document.Document) ([]document.Document, error) {
			result := []document.Document{}
			for _, d := range docs {
				c := d.Clone()
				c["_id"] = d["name"]
				result = append(result, c)
			}
			return result, nil
		},
		UpdateDocumentsFunc: func(context.Context, string, string, document.Filter, document.Update, bool) (store.UpdateResult, error) {
			return store.UpdateResult{MatchedCount: 2, ModifiedCount: 1}, nil
		},
		RetrieveDocumentFunc: func(ctx context.Context, tenant, collection, id string, populate []string) (document.Document, error) {
			return document.Document{"_id": id}, nil
		},
		MergeDocumentFunc: func(ctx context.Context, tenant, collection, id string, update document.Update) (document.Document, error) {
			return document.Document{"_id": id}, nil
		},
		ReplaceDocumentFunc: func(ctx context.Context, tenant, collection, id string, doc document.Document) (document.Document, error) {
			return document.Document{"_id": id}, nil
		},
		DeleteDocumentFunc: func(context.Context, string, string, string) error {
			return nil
		},
	}

	err := RegisterHandlers(context.Background(), r, nil, app, prometheus.NewRegistry())
	is.NoErr(err)

	return is, ts, app
}
