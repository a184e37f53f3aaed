// Package metrics instruments the station and card stores with Prometheus
// counters and latency histograms. Collectors are registered on an injected
// registerer so tests can use a private registry.
package metrics

import (
	"errors"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "transit_"

	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultRejected = "rejected"
	resultError    = "error"

	storeStation = "station"
	storeCard    = "card"
)

// StoreMetrics bundles the store operation collectors.
type StoreMetrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New constructs the collectors and registers them on reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &StoreMetrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_operations_total",
				Help: "Total store operations by store, operation and result",
			},
			[]string{"store", "operation", "result"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "store_operation_duration_seconds",
				Help:    "Store operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"store", "operation"},
		),
	}
	reg.MustRegister(m.OperationsTotal, m.OperationDuration)
	return m
}

// observe records one finished operation.
func (m *StoreMetrics) observe(storeName, op string, start time.Time, err error) {
	m.OperationsTotal.WithLabelValues(storeName, op, resultLabel(err)).Inc()
	m.OperationDuration.WithLabelValues(storeName, op).Observe(time.Since(start).Seconds())
}

// resultLabel classifies an error. Domain rejections are counted apart from
// storage failures so alerts can key on the latter.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, domain.ErrNotFound):
		return resultNotFound
	case errors.Is(err, domain.ErrInvalidField), errors.Is(err, domain.ErrUniqueField):
		return resultRejected
	default:
		return resultError
	}
}
