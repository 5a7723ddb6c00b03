// Package metrics holds the Prometheus collectors shared by the server.
// Collectors work whether or not they are registered; Register exposes them.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tabie"

var (
	// RPCRequests counts finished RPCs by procedure and Connect code.
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Finished RPCs by procedure and code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency by procedure.
	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// DocumentWrites counts tab document field replacements.
	DocumentWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_writes_total",
		Help:      "Tab document writes by replaced field.",
	}, []string{"backend", "field"})

	// Subscribers is the number of live tab subscriptions.
	Subscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_subscribers",
		Help:      "Open tab subscriptions.",
	})

	// RewardPoints counts points awarded to organizers.
	RewardPoints = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reward_points_awarded_total",
		Help:      "Reward points awarded for settled tabs.",
	})
)

// Register adds the collectors, plus the Go and process collectors, to reg.
// Collectors that are already registered are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		RPCRequests,
		RPCDuration,
		DocumentWrites,
		Subscribers,
		RewardPoints,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
