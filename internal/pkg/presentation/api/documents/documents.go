package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	application "github.com/diwise/tenant-store/internal/pkg/application/documents"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/problems"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedID    any   `json:"upsertedId,omitempty"`
}

type CountResult struct {
	Count int64 `json:"count"`
}

func NewQueryDocumentsHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")

		ctx, span := tracer.Start(ctx, "query-documents")
		defer func() {
			m.observe("query", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		filter, err := filterParameter(r.URL.Query())
		if err != nil {
			problems.ReportNewBadRequestData(w, err.Error(), traceID(span))
			return
		}

		params, err := queryParameters(r.URL.Query())
		if err != nil {
			problems.ReportNewBadRequestData(w, err.Error(), traceID(span))
			return
		}

		result, err := app.QueryDocuments(ctx, tenant, collection, filter, params)
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

func NewCountDocumentsHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")

		ctx, span := tracer.Start(ctx, "count-documents")
		defer func() {
			m.observe("count", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		filter, err := filterParameter(r.URL.Query())
		if err != nil {
			problems.ReportNewBadRequestData(w, err.Error(), traceID(span))
			return
		}

		n, err := app.CountDocuments(ctx, tenant, collection, filter)
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		writeJSON(w, http.StatusOK, CountResult{Count: n})
	})
}

func NewCreateDocumentsHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")

		ctx, span := tracer.Start(ctx, "create-documents")
		defer func() {
			m.observe("create", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		docs, single, err := decodeDocuments(r.Body)
		if err != nil {
			problems.ReportNewInvalidRequest(w, fmt.Sprintf("unable to decode request payload: %s", err.Error()), traceID(span))
			return
		}

		result, err := app.CreateDocuments(ctx, tenant, collection, docs)
		if err != nil {
			logging.GetFromContext(ctx).Info("failed to create documents", "collection", collection, "err", err.Error())
			problems.ReportError(w, err, traceID(span))
			return
		}

		m.written(tenant, collection, int64(len(result)))

		if single && len(result) == 1 {
			w.Header().Add("Location", fmt.Sprintf("%s/%v", strings.TrimSuffix(r.URL.Path, "/"), result[0].ID()))
			writeJSON(w, http.StatusCreated, result[0])
			return
		}

		writeJSON(w, http.StatusCreated, result)
	})
}

func NewUpdateDocumentsHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")

		ctx, span := tracer.Start(ctx, "update-documents")
		defer func() {
			m.observe("update", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		filter, err := filterParameter(r.URL.Query())
		if err != nil {
			problems.ReportNewBadRequestData(w, err.Error(), traceID(span))
			return
		}

		overwrite, err := boolParameter(r.URL.Query(), "overwrite")
		if err != nil {
			problems.ReportNewBadRequestData(w, err.Error(), traceID(span))
			return
		}

		update := document.Update{}
		if err = json.NewDecoder(r.Body).Decode(&update); err != nil {
			problems.ReportNewInvalidRequest(w, fmt.Sprintf("unable to decode request payload: %s", err.Error()), traceID(span))
			return
		}

		result, err := app.UpdateDocuments(ctx, tenant, collection, filter, update, overwrite)
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		m.written(tenant, collection, result.ModifiedCount)

		writeJSON(w, http.StatusOK, UpdateResult{
			MatchedCount:  result.MatchedCount,
			ModifiedCount: result.ModifiedCount,
			UpsertedID:    result.UpsertedID,
		})
	})
}

func NewRetrieveDocumentHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")
		id, _ := url.QueryUnescape(chi.URLParam(r, "id"))

		ctx, span := tracer.Start(ctx, "retrieve-document")
		defer func() {
			m.observe("retrieve", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		doc, err := app.RetrieveDocument(ctx, tenant, collection, id, listParameter(r.URL.Query(), "populate"))
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		writeJSON(w, http.StatusOK, doc)
	})
}

func NewMergeDocumentHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")
		id, _ := url.QueryUnescape(chi.URLParam(r, "id"))

		ctx, span := tracer.Start(ctx, "merge-document")
		defer func() {
			m.observe("merge", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		update := document.Update{}
		if err = json.NewDecoder(r.Body).Decode(&update); err != nil {
			problems.ReportNewInvalidRequest(w, fmt.Sprintf("unable to decode request payload: %s", err.Error()), traceID(span))
			return
		}

		doc, err := app.MergeDocument(ctx, tenant, collection, id, update)
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		m.written(tenant, collection, 1)

		writeJSON(w, http.StatusOK, doc)
	})
}

func NewReplaceDocumentHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")
		id, _ := url.QueryUnescape(chi.URLParam(r, "id"))

		ctx, span := tracer.Start(ctx, "replace-document")
		defer func() {
			m.observe("replace", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		replacement := document.Document{}
		if err = json.NewDecoder(r.Body).Decode(&replacement); err != nil {
			problems.ReportNewInvalidRequest(w, fmt.Sprintf("unable to decode request payload: %s", err.Error()), traceID(span))
			return
		}

		doc, err := app.ReplaceDocument(ctx, tenant, collection, id, replacement)
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		m.written(tenant, collection, 1)

		writeJSON(w, http.StatusOK, doc)
	})
}

func NewDeleteDocumentHandler(app application.DocumentManager, m *metrics) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx := r.Context()
		tenant := GetTenantFromContext(ctx)
		collection := chi.URLParam(r, "collection")
		id, _ := url.QueryUnescape(chi.URLParam(r, "id"))

		ctx, span := tracer.Start(ctx, "delete-document")
		defer func() {
			m.observe("delete", tenant, err)
			tracing.RecordAnyErrorAndEndSpan(err, span)
		}()

		err = app.DeleteDocument(ctx, tenant, collection, id)
		if err != nil {
			problems.ReportError(w, err, traceID(span))
			return
		}

		m.written(tenant, collection, 1)

		w.WriteHeader(http.StatusNoContent)
	})
}

func traceID(span trace.Span) string {
	if sc := span.SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		problems.ReportNewInternalError(w, err.Error(), "")
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

// decodeDocuments accepts either a single document or an array of them. The
// boolean result tells if a single document was posted.
func decodeDocuments(body io.Reader) ([]document.Document, bool, error) {
	raw := json.RawMessage{}
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, false, err
	}

	trimmed := strings.TrimSpace(string(raw))

	if strings.HasPrefix(trimmed, "[") {
		docs := []document.Document{}
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, false, err
		}
		if len(docs) == 0 {
			return nil, false, errors.New("no documents in request")
		}
		for idx, doc := range docs {
			if doc == nil {
				return nil, false, fmt.Errorf("document %d is null", idx)
			}
		}
		return docs, false, nil
	}

	doc := document.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, err
	}

	return []document.Document{doc}, true, nil
}

func filterParameter(q url.Values) (document.Filter, error) {
	f := q.Get("filter")
	if f == "" {
		return document.Filter{}, nil
	}

	filter := document.Filter{}
	if err := json.Unmarshal([]byte(f), &filter); err != nil {
		return nil, fmt.Errorf("filter is not a json object: %w", err)
	}

	return filter, nil
}

func queryParameters(q url.Values) (application.QueryParams, error) {
	params := application.QueryParams{
		Populate: listParameter(q, "populate"),
		Sort:     listParameter(q, "sort"),
	}

	var err error

	if params.Limit, err = intParameter(q, "limit"); err != nil {
		return params, err
	}

	if params.Offset, err = intParameter(q, "offset"); err != nil {
		return params, err
	}

	return params, nil
}

func listParameter(q url.Values, name string) []string {
	result := []string{}

	for _, value := range q[name] {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				result = append(result, item)
			}
		}
	}

	return result
}

func intParameter(q url.Values, name string) (int64, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non negative integer", name)
	}

	return n, nil
}

func boolParameter(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", name)
	}

	return b, nil
}
