package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/problems"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type TenantStoreClient interface {
	CreateDocument(ctx context.Context, collection string, doc document.Document) (*CreateDocumentResult, error)
	CreateDocuments(ctx context.Context, collection string, docs []document.Document) ([]document.Document, error)
	QueryDocuments(ctx context.Context, collection string, parameters ...RequestDecoratorFunc) ([]document.Document, error)
	CountDocuments(ctx context.Context, collection string, parameters ...RequestDecoratorFunc) (int64, error)
	RetrieveDocument(ctx context.Context, collection, id string, parameters ...RequestDecoratorFunc) (document.Document, error)
	MergeDocument(ctx context.Context, collection, id string, update document.Update) (document.Document, error)
	ReplaceDocument(ctx context.Context, collection, id string, doc document.Document) (document.Document, error)
	UpdateDocuments(ctx context.Context, collection string, update document.Update, parameters ...RequestDecoratorFunc) (*UpdateResult, error)
	DeleteDocument(ctx context.Context, collection, id string) error
}

type CreateDocumentResult struct {
	location string
	doc      document.Document
}

func (r CreateDocumentResult) Location() string            { return r.location }
func (r CreateDocumentResult) Document() document.Document { return r.doc }

type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedID    any   `json:"upsertedId,omitempty"`
}

const (
	DefaultTenant string = "default"
	TenantHeader  string = "Tenant"
)

func Debug(enabled string) func(*tsClient) {
	return func(c *tsClient) {
		c.debug = (enabled == "true")
	}
}

func Tenant(tenant string) func(*tsClient) {
	return func(c *tsClient) {
		c.tenant = tenant
	}
}

func NewTenantStoreClient(storeURL string, options ...func(*tsClient)) TenantStoreClient {
	return newClient(storeURL, options...)
}

func newClient(storeURL string, options ...func(*tsClient)) *tsClient {
	c := &tsClient{
		baseURL: strings.TrimSuffix(storeURL, "/"),
		tenant:  DefaultTenant,
		debug:   false,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributeTenant     string = "tenant"
	TraceAttributeCollection string = "collection"
	TraceAttributeDocumentID string = "document-id"
)

var tracer = otel.Tracer("tenant-store-client")

type tsClient struct {
	baseURL string
	tenant  string
	debug   bool
}

func (c tsClient) startSpan(ctx context.Context, operation, collection string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String(TraceAttributeTenant, c.tenant),
		attribute.String(TraceAttributeCollection, collection),
	)
	return tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
}

func (c tsClient) documentsURL(collection string) string {
	return fmt.Sprintf("%s/api/v1/collections/%s/documents", c.baseURL, url.PathEscape(collection))
}

func (c tsClient) documentURL(collection, id string) string {
	return c.documentsURL(collection) + "/" + url.PathEscape(id)
}

func (c tsClient) CreateDocument(ctx context.Context, collection string, doc document.Document) (*CreateDocumentResult, error) {
	var err error

	ctx, span := c.startSpan(ctx, "create-document", collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %s (%w)", err.Error(), problems.ErrInvalidRequest)
	}

	response, responseBody, err := c.callTenantStore(ctx, http.MethodPost, c.documentsURL(collection), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody, http.StatusCreated); err != nil {
		return nil, err
	}

	created := document.Document{}
	if err = json.Unmarshal(responseBody, &created); err != nil {
		err = fmt.Errorf("failed to unmarshal response: %s (%w)", err.Error(), problems.ErrBadResponse)
		return nil, err
	}

	location := response.Header.Get("Location")
	if location == "" {
		logging.GetFromContext(ctx).Warn("tenant store failed to provide a location header with created response")
		location = fmt.Sprintf("/api/v1/collections/%s/documents/%v", url.PathEscape(collection), created.ID())
	}

	return &CreateDocumentResult{location: location, doc: created}, nil
}

func (c tsClient) CreateDocuments(ctx context.Context, collection string, docs []document.Document) ([]document.Document, error) {
	var err error

	ctx, span := c.startSpan(ctx, "create-documents", collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal documents: %s (%w)", err.Error(), problems.ErrInvalidRequest)
	}

	response, responseBody, err := c.callTenantStore(ctx, http.MethodPost, c.documentsURL(collection), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody, http.StatusCreated); err != nil {
		return nil, err
	}

	var created []document.Document
	err = c.unmarshal(responseBody, &created)

	return created, err
}

func (c tsClient) QueryDocuments(ctx context.Context, collection string, parameters ...RequestDecoratorFunc) ([]document.Document, error) {
	var err error

	ctx, span := c.startSpan(ctx, "query-documents", collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	responseBody, err := c.query(ctx, collection, parameters...)
	if err != nil {
		return nil, err
	}

	var docs []document.Document
	err = c.unmarshal(responseBody, &docs)

	return docs, err
}

func (c tsClient) query(ctx context.Context, collection string, parameters ...RequestDecoratorFunc) ([]byte, error) {
	response, responseBody, err := c.callTenantStore(ctx, http.MethodGet, c.documentsURL(collection)+urlParameters(parameters), nil)
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody, http.StatusOK); err != nil {
		return nil, err
	}

	return responseBody, nil
}

func (c tsClient) CountDocuments(ctx context.Context, collection string, parameters ...RequestDecoratorFunc) (int64, error) {
	var err error

	ctx, span := c.startSpan(ctx, "count-documents", collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callTenantStore(ctx, http.MethodGet, c.documentsURL(collection)+"/count"+urlParameters(parameters), nil)
	if err != nil {
		return 0, err
	}

	if err = checkResponse(response, responseBody, http.StatusOK); err != nil {
		return 0, err
	}

	result := struct {
		Count int64 `json:"count"`
	}{}
	err = c.unmarshal(responseBody, &result)

	return result.Count, err
}

func (c tsClient) RetrieveDocument(ctx context.Context, collection, id string, parameters ...RequestDecoratorFunc) (document.Document, error) {
	var err error

	ctx, span := c.startSpan(ctx, "retrieve-document", collection, attribute.String(TraceAttributeDocumentID, id))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callTenantStore(ctx, http.MethodGet, c.documentURL(collection, id)+urlParameters(parameters), nil)
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody, http.StatusOK); err != nil {
		return nil, err
	}

	doc := document.Document{}
	err = c.unmarshal(responseBody, &doc)

	return doc, err
}

func (c tsClient) MergeDocument(ctx context.Context, collection, id string, update document.Update) (document.Document, error) {
	return c.updateDocument(ctx, "merge-document", http.MethodPatch, collection, id, update)
}

func (c tsClient) ReplaceDocument(ctx context.Context, collection, id string, doc document.Document) (document.Document, error) {
	return c.updateDocument(ctx, "replace-document", http.MethodPut, collection, id, doc)
}

func (c tsClient) updateDocument(ctx context.Context, operation, method, collection, id string, payload any) (document.Document, error) {
	var err error

	ctx, span := c.startSpan(ctx, operation, collection, attribute.String(TraceAttributeDocumentID, id))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %s (%w)", err.Error(), problems.ErrInvalidRequest)
	}

	response, responseBody, err := c.callTenantStore(ctx, method, c.documentURL(collection, id), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody, http.StatusOK); err != nil {
		return nil, err
	}

	doc := document.Document{}
	err = c.unmarshal(responseBody, &doc)

	return doc, err
}

func (c tsClient) UpdateDocuments(ctx context.Context, collection string, update document.Update, parameters ...RequestDecoratorFunc) (*UpdateResult, error) {
	var err error

	ctx, span := c.startSpan(ctx, "update-documents", collection)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %s (%w)", err.Error(), problems.ErrInvalidRequest)
	}

	response, responseBody, err := c.callTenantStore(ctx, http.MethodPatch, c.documentsURL(collection)+urlParameters(parameters), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	if err = checkResponse(response, responseBody, http.StatusOK); err != nil {
		return nil, err
	}

	result := &UpdateResult{}
	err = c.unmarshal(responseBody, result)

	return result, err
}

func (c tsClient) DeleteDocument(ctx context.Context, collection, id string) error {
	var err error

	ctx, span := c.startSpan(ctx, "delete-document", collection, attribute.String(TraceAttributeDocumentID, id))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callTenantStore(ctx, http.MethodDelete, c.documentURL(collection, id), nil)
	if err != nil {
		return err
	}

	err = checkResponse(response, responseBody, http.StatusNoContent)

	return err
}

func checkResponse(response *http.Response, responseBody []byte, expected int) error {
	if response.StatusCode == expected {
		return nil
	}

	contentType := response.Header.Get("Content-Type")
	if response.StatusCode >= http.StatusBadRequest && response.StatusCode <= http.StatusInternalServerError {
		return problems.NewErrorFromProblemReport(response.StatusCode, contentType, responseBody)
	}

	return fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, problems.ErrInternal)
}

func (c tsClient) unmarshal(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	if err != nil {
		if c.debug && len(body) < 1000 {
			return fmt.Errorf("unmarshaling of %s failed with err %s (%w)", string(body), err.Error(), problems.ErrBadResponse)
		}
		return fmt.Errorf("failed to unmarshal response: %s (%w)", err.Error(), problems.ErrBadResponse)
	}
	return nil
}

func (c tsClient) callTenantStore(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), problems.ErrInternal)
	}

	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	req.Header.Add("Accept", "application/json")

	if c.tenant != DefaultTenant {
		req.Header.Add(TenantHeader, c.tenant)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), problems.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), problems.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		logging.GetFromContext(ctx).Error("request failed", "request", string(reqbytes), "response", string(respbytes))
	}

	return resp, respBody, nil
}
