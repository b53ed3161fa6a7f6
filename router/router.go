package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Router wrapper cho fiber.Router với fluent API để cấu hình routes
type Router struct {
	router   fiber.Router
	registry *RouteRegistry
	authMw   AuthMiddlewareInterface
	limiter  fiber.Handler
	prefix   string // Prefix path của group (để build full path)
}

// NewRouter tạo mới Router. limiter có thể nil (không giới hạn request).
func NewRouter(
	router fiber.Router,
	registry *RouteRegistry,
	authMw AuthMiddlewareInterface,
	limiter fiber.Handler,
) *Router {
	return &Router{
		router:   router,
		registry: registry,
		authMw:   authMw,
		limiter:  limiter,
	}
}

// Get tạo GET route với fluent API
func (r *Router) Get(path string, handler fiber.Handler) *RouteBuilder {
	return r.createRouteBuilder(fiber.MethodGet, path, handler)
}

// Post tạo POST route với fluent API
func (r *Router) Post(path string, handler fiber.Handler) *RouteBuilder {
	return r.createRouteBuilder(fiber.MethodPost, path, handler)
}

// Group tạo router group với middleware tùy chọn
func (r *Router) Group(prefix string, handlers ...fiber.Handler) *Router {
	group := r.router.Group(prefix, handlers...)
	newRouter := NewRouter(group, r.registry, r.authMw, r.limiter)
	newRouter.prefix = joinPath(r.prefix, prefix)
	if newRouter.prefix == "/" {
		newRouter.prefix = ""
	}
	return newRouter
}

func (r *Router) createRouteBuilder(method, path string, handler fiber.Handler) *RouteBuilder {
	return &RouteBuilder{
		metadata: &RouteMetadata{
			Method:     method,
			Path:       path,
			FullPath:   convertPathToPattern(joinPath(r.prefix, path)),
			Handler:    handler,
			AccessType: AccessPublic,
		},
		router:   r.router,
		registry: r.registry,
		authMw:   r.authMw,
		limiter:  r.limiter,
	}
}

// MethodNotAllowed registers, after every declared route, a catch-all per path
// that answers other methods with 405, an Allow header and an empty body.
// Must be called once all routes are registered.
func MethodNotAllowed(app fiber.Router, registry *RouteRegistry) {
	for _, pattern := range registry.Paths() {
		allow := registry.AllowedMethods(pattern)
		for _, m := range allow {
			if m == fiber.MethodGet {
				allow = append(allow, fiber.MethodHead)
				break
			}
		}
		header := strings.Join(allow, ", ")
		app.All(patternToFiberPath(pattern), func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderAllow, header)
			return fiber.ErrMethodNotAllowed
		})
	}
}

// joinPath nối prefix và path, bỏ trailing slash (trừ root)
func joinPath(prefix, path string) string {
	full := strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
	if full != "/" {
		full = strings.TrimSuffix(full, "/")
	}
	return full
}
