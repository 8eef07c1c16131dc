package prometheus

import (
	"strconv"
	"time"

	"contact-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Contact operation metrics
	ContactOperationsCounter prometheus.CounterVec

	// Tenant specific metrics
	ContactsPerTenantGauge prometheus.GaugeVec

	// Active tenants with at least one contact
	ActiveTenantsGauge prometheus.Gauge
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Contact operation metrics
	ContactOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of contact operations",
		},
		[]string{"operation"},
	)

	// Tenant specific metrics
	ContactsPerTenantGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_contacts_per_tenant",
			Help: "Number of contacts per tenant",
		},
		[]string{"tenant_id"},
	)

	// Active tenants with at least one contact
	ActiveTenantsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_active_tenants",
			Help: "Number of tenants with at least one contact",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordContactOperation increments the counter for contact operations
func RecordContactOperation(operation string) {
	ContactOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateContactsPerTenant updates the gauge for contacts per tenant
func UpdateContactsPerTenant(tenantID uint, count int) {
	ContactsPerTenantGauge.WithLabelValues(
		strconv.FormatUint(uint64(tenantID), 10),
	).Set(float64(count))
}

// UpdateActiveTenants updates the active tenants gauge
func UpdateActiveTenants(count int) {
	ActiveTenantsGauge.Set(float64(count))
}
