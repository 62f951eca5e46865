package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics exposes the pipeline counters that make fulfillment failures
// externally observable. The webhook path acknowledges events even when
// fulfillment fails, so these counters are the reconciliation signal.
type Metrics struct {
	registry *prometheus.Registry

	PaymentsCreated     prometheus.Counter
	WebhookEvents       *prometheus.CounterVec
	FulfillmentFailures prometheus.Counter
	SnapshotFailures    prometheus.Counter
	UnicornsFulfilled   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		PaymentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unicornshop_payments_created_total",
			Help: "Pending payments created by order intake.",
		}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unicornshop_webhook_events_total",
			Help: "Webhook events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		FulfillmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unicornshop_fulfillment_failures_total",
			Help: "Acknowledged succeeded events whose fulfillment failed and needs manual reconciliation.",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unicornshop_stats_snapshot_failures_total",
			Help: "Stats snapshot writes that failed after fulfillment.",
		}),
		UnicornsFulfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unicornshop_unicorns_fulfilled_total",
			Help: "Unicorn records created by fulfillment.",
		}),
	}

	registry.MustRegister(
		m.PaymentsCreated,
		m.WebhookEvents,
		m.FulfillmentFailures,
		m.SnapshotFailures,
		m.UnicornsFulfilled,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
