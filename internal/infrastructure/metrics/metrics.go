package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	AccreditationsCreated prometheus.Counter
	TransitionsApplied    *prometheus.CounterVec
	TransitionsNoop       prometheus.Counter
	DispatchRetries       prometheus.Counter
	DispatchExhausted     prometheus.Counter
	ExpiryTimersArmed     prometheus.Gauge
	Expirations           prometheus.Counter
}

// New creates and registers all collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccreditationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "accreditation_created_total",
			Help: "Total number of accreditations created.",
		}),
		TransitionsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "accreditation_transitions_applied_total",
			Help: "Total number of applied status transitions, by target status.",
		}, []string{"target"}),
		TransitionsNoop: factory.NewCounter(prometheus.CounterOpts{
			Name: "accreditation_transitions_noop_total",
			Help: "Total number of transition requests discarded as no-ops.",
		}),
		DispatchRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "accreditation_dispatch_retries_total",
			Help: "Total number of transition deliveries retried after a handler failure.",
		}),
		DispatchExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "accreditation_dispatch_exhausted_total",
			Help: "Total number of transition requests dropped after exhausting retries.",
		}),
		ExpiryTimersArmed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "accreditation_expiry_timers_armed",
			Help: "Number of currently armed expiry timers.",
		}),
		Expirations: factory.NewCounter(prometheus.CounterOpts{
			Name: "accreditation_expirations_total",
			Help: "Total number of expiry transitions submitted by the scheduler.",
		}),
	}
}
