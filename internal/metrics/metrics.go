// Package metrics exposes Prometheus instruments for searches and upstream calls.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type searchMetrics struct {
	searches         *prometheus.CounterVec
	searchDuration   prometheus.Histogram
	upstreamDuration *prometheus.HistogramVec
	superseded       prometheus.Counter
}

var (
	instance        *searchMetrics
	instanceOnce    sync.Once
	defaultRegistry = prometheus.NewRegistry()
)

func get() *searchMetrics {
	instanceOnce.Do(func() {
		factory := promauto.With(defaultRegistry)
		instance = &searchMetrics{
			searches: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "weather_widget_searches_total",
				Help: "Searches by final outcome",
			}, []string{"outcome"}),
			searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
				Name:    "weather_widget_search_duration_seconds",
				Help:    "Time from search start to final state",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			}),
			upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "weather_widget_upstream_request_duration_seconds",
				Help:    "Open-Meteo request latency by endpoint and status class",
				Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5},
			}, []string{"endpoint", "status"}),
			superseded: factory.NewCounter(prometheus.CounterOpts{
				Name: "weather_widget_superseded_searches_total",
				Help: "Search results discarded because a newer search started in the same session",
			}),
		}
	})
	return instance
}

// ObserveSearch records the outcome ("result", "empty_input", "not_found", ...) and duration of one search.
func ObserveSearch(outcome string, d time.Duration) {
	m := get()
	m.searches.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(d.Seconds())
}

// ObserveUpstream records one call to an upstream endpoint. status is "2xx", "5xx" or "transport".
func ObserveUpstream(endpoint, status string, d time.Duration) {
	get().upstreamDuration.WithLabelValues(endpoint, status).Observe(d.Seconds())
}

func IncSuperseded() {
	get().superseded.Inc()
}

// StatusClass buckets an HTTP status code for the status label.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "transport"
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	get()
	return promhttp.HandlerFor(defaultRegistry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests that gather values directly.
func Registry() *prometheus.Registry {
	get()
	return defaultRegistry
}
