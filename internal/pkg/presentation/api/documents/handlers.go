package documents

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	application "github.com/diwise/tenant-store/internal/pkg/application/documents"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TenantHeader  string = "Tenant"
	DefaultTenant string = "default"

	TraceAttributeTenant string = "tenant"
)

var tracer = otel.Tracer("tenant-store/api/documents")

func RegisterHandlers(ctx context.Context, r chi.Router, middleware []func(http.Handler) http.Handler, app application.DocumentManager, reg prometheus.Registerer) error {

	m := newMetrics(reg, app.Tenants())

	middleware = append(middleware,
		Logger(logging.GetFromContext(ctx)),
		TenantMiddleware(),
		RequiredContentTypes([]string{"application/json"}),
	)

	r.Route("/api/v1/collections/{collection}/documents", func(r chi.Router) {
		r.Use(middleware...)

		r.Get("/", NewQueryDocumentsHandler(app, m))
		r.Post("/", NewCreateDocumentsHandler(app, m))
		r.Patch("/", NewUpdateDocumentsHandler(app, m))
		r.Get("/count", NewCountDocumentsHandler(app, m))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", NewRetrieveDocumentHandler(app, m))
			r.Patch("/", NewMergeDocumentHandler(app, m))
			r.Put("/", NewReplaceDocumentHandler(app, m))
			r.Delete("/", NewDeleteDocumentHandler(app, m))
		})
	})

	return nil
}

type tenantContextKey struct {
	name string
}

var tenantCtxKey = &tenantContextKey{"tenant"}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			}
		})
	}
}

// TenantMiddleware packs the tenant of the request into the context
func TenantMiddleware() func(http.Handler) http.Handler {
	tenantHeaderName := http.CanonicalHeaderKey(TenantHeader)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := DefaultTenant

			if t := r.Header.Get(tenantHeaderName); t != "" {
				tenant = t
			}

			if labeler, found := otelhttp.LabelerFromContext(r.Context()); found {
				labeler.Add(attribute.String(TraceAttributeTenant, tenant))
			}

			ctx := context.WithValue(r.Context(), tenantCtxKey, tenant)

			ctx = logging.NewContextWithLogger(
				ctx,
				logging.GetFromContext(r.Context()),
				"tenant",
				tenant,
			)

			if tenant != DefaultTenant {
				w.Header().Add(tenantHeaderName, tenant)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantFromContext extracts the tenant name, if any, from the provided context
func GetTenantFromContext(ctx context.Context) string {
	tenant, ok := ctx.Value(tenantCtxKey).(string)

	if !ok {
		return DefaultTenant
	}

	return tenant
}
