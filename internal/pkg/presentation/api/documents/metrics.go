package documents

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UnknownTenantLabel replaces tenant label values that are not configured
const UnknownTenantLabel string = "unknown"

type metrics struct {
	tenants map[string]bool

	requestsTotal    *prometheus.CounterVec
	requestErrors    *prometheus.CounterVec
	documentsWritten *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, tenants []string) *metrics {
	factory := promauto.With(reg)

	known := make(map[string]bool, len(tenants))
	for _, t := range tenants {
		known[t] = true
	}

	return &metrics{
		tenants: known,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_store_requests_total",
				Help: "Total number of document requests processed",
			},
			[]string{"operation", "tenant"},
		),
		requestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_store_request_errors_total",
				Help: "Total number of document requests that failed",
			},
			[]string{"operation", "tenant"},
		),
		documentsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenant_store_documents_written_total",
				Help: "Total number of documents written or deleted",
			},
			[]string{"tenant", "collection"},
		),
	}
}

func (m *metrics) tenant(tenant string) string {
	if m.tenants[tenant] {
		return tenant
	}
	return UnknownTenantLabel
}

func (m *metrics) observe(operation, tenant string, err error) {
	tenant = m.tenant(tenant)

	m.requestsTotal.WithLabelValues(operation, tenant).Inc()
	if err != nil {
		m.requestErrors.WithLabelValues(operation, tenant).Inc()
	}
}

func (m *metrics) written(tenant, collection string, n int64) {
	if n > 0 {
		m.documentsWritten.WithLabelValues(m.tenant(tenant), collection).Add(float64(n))
	}
}
