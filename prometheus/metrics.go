package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"rental-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Contract metrics
	ContractOperationsCounter prometheus.CounterVec

	// Inventory metrics
	ItemOperationsCounter prometheus.CounterVec

	// Availability engine metrics
	AvailabilityQueriesCounter  prometheus.Counter
	AllocationRejectionsCounter prometheus.Counter
	PackageUnsatisfiedCounter   prometheus.CounterVec
	GroupAvailabilityGauge      prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Contract metrics
	ContractOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_contract_operations_total",
			Help: "Total number of contract operations",
		},
		[]string{"operation"},
	)

	// Inventory metrics
	ItemOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_item_operations_total",
			Help: "Total number of inventory item operations",
		},
		[]string{"operation"},
	)

	// Availability engine metrics
	AvailabilityQueriesCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_availability_queries_total",
			Help: "Total number of availability queries",
		},
	)

	AllocationRejectionsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_allocation_rejections_total",
			Help: "Total number of allocations rejected for exceeding capacity",
		},
	)

	PackageUnsatisfiedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_package_unsatisfied_total",
			Help: "Total number of package categories that could not be fulfilled",
		},
		[]string{"category"},
	)

	GroupAvailabilityGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_group_available_units",
			Help: "Available units per product group for the current date",
		},
		[]string{"name", "type", "size"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordContractOperation increments the counter for contract operations
func RecordContractOperation(operation string) {
	ContractOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordItemOperation increments the counter for inventory item operations
func RecordItemOperation(operation string) {
	ItemOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordUnsatisfiedCategory increments the counter for a package category
// that could not be fully assigned
func RecordUnsatisfiedCategory(category string) {
	PackageUnsatisfiedCounter.WithLabelValues(category).Inc()
}

// UpdateGroupAvailability updates the gauge for a product group's
// current-date availability
func UpdateGroupAvailability(name, itemType, size string, count float64) {
	GroupAvailabilityGauge.WithLabelValues(name, itemType, size).Set(count)
}
