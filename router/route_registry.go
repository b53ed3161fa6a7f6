package router

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// AccessType xác định ai được gọi route
type AccessType string

const (
	// AccessPublic: không cần token
	AccessPublic AccessType = "PUBLIC"
	// AccessOptionalAdmin: token không bắt buộc, nếu có phải hợp lệ
	AccessOptionalAdmin AccessType = "OPTIONAL_ADMIN"
	// AccessAdmin: bắt buộc admin token
	AccessAdmin AccessType = "ADMIN"
)

// RouteMetadata lưu thông tin route được khai báo trong code
type RouteMetadata struct {
	Method      string
	Path        string // Relative path (để register vào router)
	FullPath    string // Full path bao gồm prefix
	Handler     fiber.Handler
	AccessType  AccessType
	RateLimited bool
	Description string
}

// RouteRegistry quản lý tất cả routes được đăng ký từ code
type RouteRegistry struct {
	routes      []*RouteMetadata
	exactMap    map[string]*RouteMetadata // O(1) lookup: "METHOD|PATH" -> RouteMetadata
	patternList []*RouteMetadata          // Routes có path params
	mutex       sync.RWMutex
}

// NewRouteRegistry tạo mới RouteRegistry
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{
		routes:      make([]*RouteMetadata, 0),
		exactMap:    make(map[string]*RouteMetadata),
		patternList: make([]*RouteMetadata, 0),
	}
}

// Register đăng ký một route vào registry
func (rr *RouteRegistry) Register(route *RouteMetadata) {
	rr.mutex.Lock()
	defer rr.mutex.Unlock()

	rr.routes = append(rr.routes, route)

	if strings.Contains(route.FullPath, "*") {
		rr.patternList = append(rr.patternList, route)
	} else {
		key := fmt.Sprintf("%s|%s", route.Method, route.FullPath)
		rr.exactMap[key] = route
	}
}

// GetAllRoutes trả về tất cả routes đã đăng ký
func (rr *RouteRegistry) GetAllRoutes() []*RouteMetadata {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	routes := make([]*RouteMetadata, len(rr.routes))
	copy(routes, rr.routes)
	return routes
}

// FindRoute tìm route theo method và path
func (rr *RouteRegistry) FindRoute(method, path string) *RouteMetadata {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	key := fmt.Sprintf("%s|%s", method, path)
	if route, found := rr.exactMap[key]; found {
		return route
	}

	for _, route := range rr.patternList {
		if route.Method == method && matchPath(route.FullPath, path) {
			return route
		}
	}

	return nil
}

// RouteLabel returns the registered pattern serving method and path, or the
// pattern of any method on that path (a 405), or "" when nothing matches.
// Used as a bounded metrics label.
func (rr *RouteRegistry) RouteLabel(method, path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if route := rr.FindRoute(method, path); route != nil {
		return route.FullPath
	}

	rr.mutex.RLock()
	defer rr.mutex.RUnlock()
	for _, route := range rr.routes {
		if matchPath(route.FullPath, path) {
			return route.FullPath
		}
	}
	return ""
}

// Paths returns every distinct full path pattern in registration order
func (rr *RouteRegistry) Paths() []string {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	seen := make(map[string]struct{}, len(rr.routes))
	paths := make([]string, 0, len(rr.routes))
	for _, route := range rr.routes {
		if _, ok := seen[route.FullPath]; ok {
			continue
		}
		seen[route.FullPath] = struct{}{}
		paths = append(paths, route.FullPath)
	}
	return paths
}

// AllowedMethods returns the sorted methods registered for a full path pattern
func (rr *RouteRegistry) AllowedMethods(fullPath string) []string {
	rr.mutex.RLock()
	defer rr.mutex.RUnlock()

	methods := make([]string, 0, 2)
	for _, route := range rr.routes {
		if route.FullPath == fullPath {
			methods = append(methods, route.Method)
		}
	}
	sort.Strings(methods)
	return methods
}

// matchPath kiểm tra path có match với pattern không (hỗ trợ wildcard *)
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}

	return true
}

// convertPathToPattern converts path parameters to wildcard pattern
// Ví dụ: /blogs/:id -> /blogs/*
func convertPathToPattern(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, "/")
}

// patternToFiberPath turns a wildcard pattern back into a path fiber can route
func patternToFiberPath(pattern string) string {
	parts := strings.Split(pattern, "/")
	n := 0
	for i, part := range parts {
		if part == "*" {
			n++
			parts[i] = fmt.Sprintf(":p%d", n)
		}
	}
	return strings.Join(parts, "/")
}
