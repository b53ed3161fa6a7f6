package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/goerrorkit"
)

// BlogsRequest is the optional body of GET/POST /blogs
type BlogsRequest struct {
	IDs []int64 `json:"ids" form:"ids"`
}

// ViewRequest is the body of POST /views
type ViewRequest struct {
	ID    *int64 `json:"id" form:"id"`
	Title string `json:"title" form:"title"`
}

// CounterRequest is the body of POST /increment-view and /increment-like
type CounterRequest struct {
	ID *int64 `json:"id" form:"id"`
}

// parseBody decodes an optional request body. An empty body leaves out untouched.
// Clients that post JSON without a Content-Type header are decoded as JSON.
func parseBody(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}

	var err error
	if c.Get(fiber.HeaderContentType) == "" {
		err = c.App().Config().JSONDecoder(body, out)
	} else {
		err = c.BodyParser(out)
	}
	if err != nil {
		return goerrorkit.NewValidationError("invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// requireID returns the id of a request body or a validation error when it is missing
func requireID(id *int64) (int64, error) {
	if id == nil {
		return 0, goerrorkit.NewValidationError("id is required", map[string]interface{}{
			"field": "id",
		})
	}
	return *id, nil
}

// parseIDList parses "1,2,3" from the ids query parameter
func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, goerrorkit.NewValidationError("ids must be a comma separated list of integers", map[string]interface{}{
				"field": "ids",
				"value": raw,
			})
		}
		ids = append(ids, id)
	}
	return ids, nil
}
