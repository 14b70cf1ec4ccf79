package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry

	normalized *prometheus.CounterVec
	lookups    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		normalized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manifest_normalized_requests_total",
				Help: "Total number of requests normalized, by backend and kind",
			},
			[]string{"backend", "kind"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manifest_cache_lookups_total",
				Help: "Total number of cache reads, by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "manifest_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(m.normalized, m.lookups, m.duration)
	return m
}

// observe records the duration of every request by its matched route.
func (m *metrics) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	m.duration.WithLabelValues(
		c.Method(),
		c.Route().Path,
		strconv.Itoa(status),
	).Observe(time.Since(start).Seconds())

	return err
}
