// Package metrics collects Prometheus metrics for the recipe service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware record into. Nop satisfies it for tests.
type Recorder interface {
	RecordList(filter string, results int)
	RecordRecipeCreated()
	RecordViewIncrement(ok bool)
	RecordUploadFailure(backend string)
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

type Collector struct {
	listRequests   *prometheus.CounterVec
	listResults    prometheus.Histogram
	recipesCreated prometheus.Counter
	viewIncrements *prometheus.CounterVec
	uploadFailures *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// NewCollector registers the service metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		listRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obiabedidi_recipe_list_requests_total",
			Help: "Recipe list requests by filter.",
		}, []string{"filter"}),
		listResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "obiabedidi_recipe_list_results",
			Help:    "Recipes returned per list page.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "obiabedidi_recipes_created_total",
			Help: "Recipes created.",
		}),
		viewIncrements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obiabedidi_view_increments_total",
			Help: "View increments by outcome.",
		}, []string{"outcome"}),
		uploadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obiabedidi_upload_failures_total",
			Help: "Failed photo uploads by backend.",
		}, []string{"backend"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obiabedidi_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "obiabedidi_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.listRequests,
		c.listResults,
		c.recipesCreated,
		c.viewIncrements,
		c.uploadFailures,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

func (c *Collector) RecordList(filter string, results int) {
	if filter == "" {
		filter = "all"
	}
	c.listRequests.WithLabelValues(filter).Inc()
	c.listResults.Observe(float64(results))
}

func (c *Collector) RecordRecipeCreated() {
	c.recipesCreated.Inc()
}

func (c *Collector) RecordViewIncrement(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.viewIncrements.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordUploadFailure(backend string) {
	c.uploadFailures.WithLabelValues(backend).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type Nop struct{}

func (Nop) RecordList(string, int)                               {}
func (Nop) RecordRecipeCreated()                                 {}
func (Nop) RecordViewIncrement(bool)                             {}
func (Nop) RecordUploadFailure(string)                           {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
