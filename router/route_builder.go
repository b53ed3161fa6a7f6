package router

import (
	"github.com/gofiber/fiber/v2"
)

// AuthMiddlewareInterface là phần của middleware.AuthMiddleware mà router cần
type AuthMiddlewareInterface interface {
	RequireAdmin() fiber.Handler
	OptionalAdmin() fiber.Handler
}

// RouteBuilder cung cấp fluent API để cấu hình route và quyền truy cập
type RouteBuilder struct {
	metadata *RouteMetadata
	router   fiber.Router
	registry *RouteRegistry
	authMw   AuthMiddlewareInterface
	limiter  fiber.Handler
}

// Public đánh dấu route là public (không cần authentication)
func (rb *RouteBuilder) Public() *RouteBuilder {
	rb.metadata.AccessType = AccessPublic
	return rb
}

// OptionalAdmin đọc admin token nếu có; handler tự quyết định cần token hay không
func (rb *RouteBuilder) OptionalAdmin() *RouteBuilder {
	rb.metadata.AccessType = AccessOptionalAdmin
	return rb
}

// Admin yêu cầu admin token
func (rb *RouteBuilder) Admin() *RouteBuilder {
	rb.metadata.AccessType = AccessAdmin
	return rb
}

// RateLimited áp dụng rate limiter (nếu đã cấu hình) cho route
func (rb *RouteBuilder) RateLimited() *RouteBuilder {
	rb.metadata.RateLimited = true
	return rb
}

// Description thêm mô tả cho route
func (rb *RouteBuilder) Description(desc string) *RouteBuilder {
	rb.metadata.Description = desc
	return rb
}

// Register hoàn tất việc đăng ký route và áp dụng middleware phù hợp
func (rb *RouteBuilder) Register() {
	rb.registry.Register(rb.metadata)

	handlers := make([]fiber.Handler, 0, 3)
	if rb.metadata.RateLimited && rb.limiter != nil {
		handlers = append(handlers, rb.limiter)
	}
	switch rb.metadata.AccessType {
	case AccessAdmin:
		handlers = append(handlers, rb.authMw.RequireAdmin())
	case AccessOptionalAdmin:
		handlers = append(handlers, rb.authMw.OptionalAdmin())
	}
	handlers = append(handlers, rb.metadata.Handler)

	rb.router.Add(rb.metadata.Method, rb.metadata.Path, handlers...)
}
