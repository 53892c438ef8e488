package metrics

import "github.com/prometheus/client_golang/prometheus"

// UsageMetrics holds Prometheus metrics for plan gating and the interaction checker.
type UsageMetrics struct {
	QuotaRejections   *prometheus.CounterVec
	InteractionChecks *prometheus.CounterVec
	Registrations     prometheus.Counter
}

// NewUsageMetrics creates and registers usage metrics on the given registry.
func NewUsageMetrics(reg prometheus.Registerer) *UsageMetrics {
	m := &UsageMetrics{
		QuotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejections_total",
			Help:      "Total number of requests rejected by a daily quota, by kind.",
		}, []string{"kind"}),
		InteractionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_checks_total",
			Help:      "Total number of interaction checks, by highest severity found.",
		}, []string{"highest_severity"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of accounts registered.",
		}),
	}

	reg.MustRegister(m.QuotaRejections, m.InteractionChecks, m.Registrations)
	return m
}
