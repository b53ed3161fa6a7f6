package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/blogcounter/manifest"
	"github.com/techmaster-vietnam/blogcounter/middleware"
	"github.com/techmaster-vietnam/blogcounter/service"
	"github.com/techmaster-vietnam/goerrorkit"
)

// BlogHandler handles blog counter endpoints
type BlogHandler struct {
	blogService    *service.BlogService
	backfillPublic bool
}

// NewBlogHandler creates a new blog handler.
// backfillPublic cho phép request không có admin token tạo record qua /blogs.
func NewBlogHandler(blogService *service.BlogService, backfillPublic bool) *BlogHandler {
	return &BlogHandler{
		blogService:    blogService,
		backfillPublic: backfillPublic,
	}
}

// Blogs lists every record, creating the requested ids first when given
// GET|POST /blogs  body: { ids?: [int] }  or  ?ids=1,2,3
func (h *BlogHandler) Blogs(c *fiber.Ctx) error {
	var req BlogsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if len(req.IDs) == 0 {
		ids, err := parseIDList(c.Query("ids"))
		if err != nil {
			return err
		}
		req.IDs = ids
	}

	if len(req.IDs) == 0 {
		blogs, err := h.blogService.ListAll(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(blogs)
	}

	if !h.backfillPublic && !middleware.IsAdmin(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "admin token required to create records")
	}

	blogs, err := h.blogService.EnsureExist(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(blogs)
}

// Backfill creates the records listed in a manifest document (JSON, or YAML
// when the Content-Type says so) and returns every record. Mounted behind RequireAdmin.
// POST /admin/backfill  body: { blogs?: [{id, title?}], ids?: [int] }
func (h *BlogHandler) Backfill(c *fiber.Ctx) error {
	parse := manifest.ParseJSON
	if strings.Contains(c.Get(fiber.HeaderContentType), "yaml") {
		parse = manifest.Parse
	}
	seeds, err := parse(c.Body())
	if err != nil {
		return goerrorkit.NewValidationError("invalid manifest", map[string]interface{}{
			"error": err.Error(),
		})
	}

	blogs, err := h.blogService.Backfill(c.UserContext(), seeds)
	if err != nil {
		return err
	}
	return c.JSON(blogs)
}

// Get handles get blog by ID request without counting a view
// GET /blogs/:id
func (h *BlogHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return goerrorkit.NewValidationError("id must be an integer", map[string]interface{}{
			"id": c.Params("id"),
		})
	}

	blog, err := h.blogService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(blog)
}

// RegisterView counts a view and returns the record, creating it when unknown
// POST /views  body: { id: int, title?: string }
func (h *BlogHandler) RegisterView(c *fiber.Ctx) error {
	var req ViewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id, err := requireID(req.ID)
	if err != nil {
		return err
	}

	blog, err := h.blogService.RegisterViewAndFetch(c.UserContext(), id, req.Title)
	if err != nil {
		return err
	}
	return c.JSON(blog)
}

// IncrementView counts a view of an existing record
// POST /increment-view  body: { id: int }
func (h *BlogHandler) IncrementView(c *fiber.Ctx) error {
	var req CounterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id, err := requireID(req.ID)
	if err != nil {
		return err
	}

	views, err := h.blogService.IncrementView(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"views": views})
}

// IncrementLike counts a like of an existing record
// POST /increment-like  body: { id: int }
func (h *BlogHandler) IncrementLike(c *fiber.Ctx) error {
	var req CounterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id, err := requireID(req.ID)
	if err != nil {
		return err
	}

	likes, err := h.blogService.IncrementLike(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"likes": likes})
}
