package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the bridge metrics. Each server has its own registry.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	actionsTotal    *prometheus.CounterVec
	capturesTotal   *prometheus.CounterVec
	stateWrites     *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickadd_bridge_requests_total",
				Help: "Total number of bridge HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quickadd_bridge_request_duration_seconds",
				Help:    "Bridge request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		actionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickadd_bridge_actions_total",
				Help: "Remote actions proxied by the bridge",
			},
			[]string{"action", "result"}, // result: success, error
		),
		capturesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickadd_bridge_captures_total",
				Help: "Pending captures stored through the bridge",
			},
			[]string{"kind"},
		),
		stateWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickadd_bridge_state_writes_total",
				Help: "Changes to the shared state made by the bridge",
			},
			[]string{"key"},
		),
	}
}

func (m *metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}
		m.requestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *metrics) action(name string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.actionsTotal.WithLabelValues(name, result).Inc()
}

func (m *metrics) stateWrite(key string) {
	m.stateWrites.WithLabelValues(key).Inc()
}
