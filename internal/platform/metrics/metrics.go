package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     prometheus.Histogram
	rateLimited  prometheus.Counter
	calculations *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxease_http_requests_total",
			Help: "HTTP requests served, by status class.",
		}, []string{"status_class"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxease_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taxease_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxease_calculations_total",
			Help: "Tax computations, by employment type and the rule that set the liability.",
		}, []string{"employment_type", "outcome"}),
	}
	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.rateLimited,
		c.calculations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.WithLabelValues(statusClass(status)).Inc()
	c.duration.Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) ObserveCalculation(employmentType, outcome string) {
	c.calculations.WithLabelValues(employmentType, outcome).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
