// Package metrics exports store and subscription activity to Prometheus.
//
// The counters make the cost profile of the two actions visible: a
// RandomizeAll pass evaluates every subscription, a SetCell pass only the
// subscriptions scoped to one row.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "furrygrid"

// Collector implements store.Recorder and watch.Recorder.
type Collector struct {
	Dispatches    *prometheus.CounterVec
	Passes        prometheus.Counter
	Evaluations   prometheus.Counter
	Notifications prometheus.Counter
	Skipped       prometheus.Counter
	Subscriptions prometheus.Gauge
}

// New creates a collector and registers it with reg.
// A nil reg leaves the metrics unregistered.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "dispatches_total",
			Help:      "Dispatched actions by action type and result",
		}, []string{"action", "result"}),
		Passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "passes_total",
			Help:      "Snapshot diff passes run by the subscription manager",
		}),
		Evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "evaluations_total",
			Help:      "Selector evaluations across all passes",
		}),
		Notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "notifications_total",
			Help:      "Observer notifications for changed slices",
		}),
		Skipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "skipped_total",
			Help:      "Subscriptions skipped because their rows were unchanged",
		}),
		Subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "subscriptions",
			Help:      "Currently active subscriptions",
		}),
	}
}

// ObserveDispatch records a dispatch outcome.
func (c *Collector) ObserveDispatch(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	c.Dispatches.WithLabelValues(kind, result).Inc()
}

// ObservePass records one subscription manager pass.
func (c *Collector) ObservePass(evaluated, notified, skipped int) {
	c.Passes.Inc()
	c.Evaluations.Add(float64(evaluated))
	c.Notifications.Add(float64(notified))
	c.Skipped.Add(float64(skipped))
}

// ObserveSubscriptions records the active subscription count.
func (c *Collector) ObserveSubscriptions(active int) {
	c.Subscriptions.Set(float64(active))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
