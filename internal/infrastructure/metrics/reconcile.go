// Package metrics exposes Prometheus collectors for reconciliation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reconcile outcomes recorded per provider.
const (
	OutcomeSynced   = "synced"
	OutcomeSentinel = "sentinel"
	OutcomeFailed   = "failed"

	// OutcomeStoreError means the provider answered but a row could not be written.
	OutcomeStoreError = "store_error"
)

// ReconcileRecorder counts the outcome of one provider within a reconcile run.
type ReconcileRecorder interface {
	ObserveProvider(provider, outcome string)
}

type PrometheusReconcileRecorder struct {
	providerTotal *prometheus.CounterVec
}

// NewReconcileRecorder registers its collectors on reg. Pass prometheus.DefaultRegisterer
// in production and prometheus.NewRegistry() in tests.
func NewReconcileRecorder(reg prometheus.Registerer) (*PrometheusReconcileRecorder, error) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursegate",
		Subsystem: "reconcile",
		Name:      "provider_total",
		Help:      "Reconciliation outcomes per payment provider.",
	}, []string{"provider", "outcome"})

	if err := reg.Register(total); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			total = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	return &PrometheusReconcileRecorder{providerTotal: total}, nil
}

func (r *PrometheusReconcileRecorder) ObserveProvider(provider, outcome string) {
	r.providerTotal.WithLabelValues(provider, outcome).Inc()
}

type nopRecorder struct{}

func (nopRecorder) ObserveProvider(string, string) {}

// NewNopReconcileRecorder returns a recorder that discards everything.
func NewNopReconcileRecorder() ReconcileRecorder {
	return nopRecorder{}
}
