package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ViewRegistered()
	m.ViewRegistered()
	m.LikeRegistered()
	m.RecordsCreated(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ViewsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LikesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CreatedTotal))
}

// routeTable labels requests the way the route registry does
func routeTable(routes map[string]string) RouteLabeler {
	return func(method, path string) string {
		if pattern, ok := routes[method+" "+path]; ok {
			return pattern
		}
		if strings.HasPrefix(path, "/blogs/") {
			return "/blogs/*"
		}
		return ""
	}
}

func newMetricsApp(m *Metrics) *fiber.App {
	app := fiber.New()
	app.Use(m.Middleware(routeTable(map[string]string{
		"POST /views":  "/views",
		"GET /healthz": "/healthz",
		"GET /metrics": "/metrics",
	})))
	app.Get("/blogs/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/views", func(c *fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "bad")
		}
		return c.SendString("counted")
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", m.Handler())
	return app
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	app := newMetricsApp(m)

	resp, err := app.Test(httptest.NewRequest("GET", "/blogs/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/views", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/blogs/*", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/views", "POST", "400")))

	m.ViewRegistered()
	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "blog_views_total 1")
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/blogs/*",status="200"} 1`)
}

// Labels of an earlier request must not change when fiber reuses its buffers
func TestMiddleware_LabelsSurviveLaterRequests(t *testing.T) {
	m := New(prometheus.NewRegistry())
	app := newMetricsApp(m)

	resp, err := app.Test(httptest.NewRequest("POST", "/views", strings.NewReader(`{"id":1}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	for i := 0; i < 2; i++ {
		_, err = app.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/views", "POST", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/healthz", "GET", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="POST",path="/views",status="200"} 1`)
	assert.NotContains(t, string(body), `method="GETT"`)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())
	app := newMetricsApp(m)

	for _, path := range []string{"/wp-login.php", "/.env", "/admin/config.php"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(UnmatchedRoute, "GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequests))
}

func TestMiddleware_NilLabeler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(m.Middleware(nil))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(UnmatchedRoute, "GET", "200")))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
