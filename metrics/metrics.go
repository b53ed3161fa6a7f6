package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters exposed on /metrics:
// - http_requests_total: requests by route, method and status
// - http_request_duration_seconds: latency by route and method
// - blog_views_total, blog_likes_total: registered counter increments
// - blog_records_created_total: records created by backfill
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	ViewsTotal   prometheus.Counter
	LikesTotal   prometheus.Counter
	CreatedTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg.
// Truyền prometheus.NewRegistry() trong tests để tránh đăng ký trùng.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status"},
			[]string{"path", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets},
			[]string{"path", "method"},
		),
		ViewsTotal:   prometheus.NewCounter(prometheus.CounterOpts{Name: "blog_views_total", Help: "Registered blog views"}),
		LikesTotal:   prometheus.NewCounter(prometheus.CounterOpts{Name: "blog_likes_total", Help: "Registered blog likes"}),
		CreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{Name: "blog_records_created_total", Help: "Blog records created by backfill"}),
		gatherer:     reg,
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPLatency, m.ViewsTotal, m.LikesTotal, m.CreatedTotal)
	return m
}

// ViewRegistered implements core.CounterObserver
func (m *Metrics) ViewRegistered() { m.ViewsTotal.Inc() }

// LikeRegistered implements core.CounterObserver
func (m *Metrics) LikeRegistered() { m.LikesTotal.Inc() }

// RecordsCreated implements core.CounterObserver
func (m *Metrics) RecordsCreated(n int64) { m.CreatedTotal.Add(float64(n)) }

// UnmatchedRoute is the path label of requests no registered route matched
const UnmatchedRoute = "unmatched"

// RouteLabeler maps a request to the route pattern used as the path label.
// It returns "" when no route matches.
type RouteLabeler func(method, path string) string

// Middleware records request count and latency. Handler errors go through the
// app's ErrorHandler first so the recorded status is the one sent to the client.
// Labels are copied out of the request: fiber reuses its buffers after the handler returns.
func (m *Metrics) Middleware(label RouteLabeler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := UnmatchedRoute
		if label != nil {
			if pattern := label(c.Method(), c.Path()); pattern != "" {
				path = utils.CopyString(pattern)
			}
		}
		method := utils.CopyString(c.Method())
		m.HTTPLatency.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
		m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(c.Response().StatusCode())).Inc()
		return nil
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
