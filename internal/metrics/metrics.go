// Package metrics collects and exposes Prometheus metrics for the
// tracking service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service metrics.
type Collector struct {
	phasesStarted   *prometheus.CounterVec
	phasesCompleted *prometheus.CounterVec
	phasesReverted  *prometheus.CounterVec
	lookups         prometheus.Counter
	lookupMisses    prometheus.Counter
	notifications   prometheus.Counter
	phaseMinutes    *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		phasesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_phases_started_total",
			Help: "Total number of phase starts",
		}, []string{"phase"}),
		phasesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_phases_completed_total",
			Help: "Total number of phase completions",
		}, []string{"phase"}),
		phasesReverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_phases_reverted_total",
			Help: "Total number of phase reverts",
		}, []string{"phase"}),
		lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_lookups_total",
			Help: "Total number of client order lookups",
		}),
		lookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_lookup_misses_total",
			Help: "Total number of lookups that found no order",
		}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_notifications_published_total",
			Help: "Total number of notification events published",
		}),
		phaseMinutes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laundry_phase_actual_minutes",
			Help:    "Actual phase duration in minutes",
			Buckets: []float64{5, 10, 20, 30, 45, 60, 90, 120, 180, 240},
		}, []string{"phase"}),
	}

	prometheus.MustRegister(
		c.phasesStarted,
		c.phasesCompleted,
		c.phasesReverted,
		c.lookups,
		c.lookupMisses,
		c.notifications,
		c.phaseMinutes,
	)
	return c
}

func (c *Collector) RecordPhaseStarted(phase string) {
	c.phasesStarted.WithLabelValues(phase).Inc()
}

func (c *Collector) RecordPhaseCompleted(phase string, actualMinutes int) {
	c.phasesCompleted.WithLabelValues(phase).Inc()
	c.phaseMinutes.WithLabelValues(phase).Observe(float64(actualMinutes))
}

func (c *Collector) RecordPhaseReverted(phase string) {
	c.phasesReverted.WithLabelValues(phase).Inc()
}

func (c *Collector) RecordLookup(found bool) {
	c.lookups.Inc()
	if !found {
		c.lookupMisses.Inc()
	}
}

func (c *Collector) RecordNotification() { c.notifications.Inc() }

// Handler exposes the /metrics endpoint.
func (c *Collector) Handler() http.Handler { return promhttp.Handler() }
