package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the silent degradations of the data access layer.
type Metrics struct {
	// RemoteFallbacks counts operations served by the local mirror because
	// the remote store failed.
	RemoteFallbacks *prometheus.CounterVec
	// MirrorFailures counts failed mirror reads and writes, including the
	// best-effort refresh after a successful remote call.
	MirrorFailures *prometheus.CounterVec
}

// NewMetrics registers the counters with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RemoteFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techsupport_remote_fallbacks_total",
			Help: "Data access operations served by the local mirror after a remote store failure.",
		}, []string{"entity", "operation"}),
		MirrorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "techsupport_mirror_failures_total",
			Help: "Failed local mirror reads and writes.",
		}, []string{"entity", "operation"}),
	}
}
