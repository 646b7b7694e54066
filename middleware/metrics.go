package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UnmatchedRoute labels requests no route or static file answered.
const UnmatchedRoute = "unmatched"

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	requests          *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	TemplatesSaved    prometheus.Counter
	AssetsUploaded    prometheus.Counter
	TemplatesRendered prometheus.Counter
}

// NewMetrics registers the service collectors with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "emailbuilder_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emailbuilder_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		TemplatesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "emailbuilder_templates_saved_total",
			Help: "Templates persisted",
		}),
		AssetsUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "emailbuilder_assets_uploaded_total",
			Help: "Assets written to the upload directory",
		}),
		TemplatesRendered: factory.NewCounter(prometheus.CounterOpts{
			Name: "emailbuilder_renders_total",
			Help: "Templates rendered for download",
		}),
	}
}

// Handler records request counts and latencies. It must run inside
// RequestLogger so the status code is final when it is observed.
func (m *Metrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiberStatus(err)
		}
		route := c.Route().Path
		if unmatched(err) {
			// c.Route() is the last middleware here, not a real route
			route = UnmatchedRoute
		}
		m.requests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

func fiberStatus(err error) int {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// unmatched reports whether err is fiber's fallthrough not-found error.
// Handlers in this service never return a bare 404 fiber.Error.
func unmatched(err error) bool {
	fe, ok := err.(*fiber.Error)
	return ok && fe.Code == fiber.StatusNotFound
}
