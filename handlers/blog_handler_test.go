package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/blogcounter/database/dbtest"
	"github.com/techmaster-vietnam/blogcounter/middleware"
	"github.com/techmaster-vietnam/blogcounter/models"
	"github.com/techmaster-vietnam/blogcounter/repository"
	"github.com/techmaster-vietnam/blogcounter/service"
	"github.com/techmaster-vietnam/blogcounter/utils"
)

const testSecret = "handler-secret"

type testEnv struct {
	app       *fiber.App
	authToken string
}

func newTestEnv(t *testing.T, backfillPublic bool) *testEnv {
	t.Helper()
	db := dbtest.Open(t)

	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: testSecret, Expiration: time.Hour},
		Admin: config.AdminConfig{PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderpl"},
	}
	blogService := service.NewBlogService(repository.NewBlogRepository(db), "")
	authMw := middleware.NewAuthMiddleware(service.NewAuthService(cfg))
	h := NewBlogHandler(blogService, backfillPublic)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	app.Get("/blogs", authMw.OptionalAdmin(), h.Blogs)
	app.Post("/blogs", authMw.OptionalAdmin(), h.Blogs)
	app.Get("/blogs/:id", h.Get)
	app.Post("/admin/backfill", authMw.RequireAdmin(), h.Backfill)
	app.Post("/views", h.RegisterView)
	app.Post("/increment-view", h.IncrementView)
	app.Post("/increment-like", h.IncrementLike)

	token, _, err := utils.GenerateToken("admin", testSecret, time.Hour)
	require.NoError(t, err)
	return &testEnv{app: app, authToken: token}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func decodeBlog(t *testing.T, b []byte) models.Blog {
	t.Helper()
	var blog models.Blog
	require.NoError(t, json.Unmarshal(b, &blog))
	return blog
}

func decodeError(t *testing.T, b []byte) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(b, &resp))
	return resp.Error
}

func TestRegisterView_Example(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "POST", "/views", `{"id":7,"title":"Hello"}`, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, models.Blog{ID: 7, Title: "Hello", Likes: 0, Views: 1}, decodeBlog(t, body))

	status, body = env.do(t, "POST", "/views", `{"id":7,"title":"Ignored"}`, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.Blog{ID: 7, Title: "Hello", Likes: 0, Views: 2}, decodeBlog(t, body))
}

func TestRegisterView_NoContentType(t *testing.T) {
	env := newTestEnv(t, false)

	req := httptest.NewRequest("POST", "/views", strings.NewReader(`{"id":3}`))
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, models.Blog{ID: 3, Title: models.DefaultTitle, Views: 1}, decodeBlog(t, b))
}

func TestRegisterView_InvalidInput(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"missing body", ""},
		{"missing id", `{"title":"x"}`},
		{"zero id", `{"id":0}`},
		{"negative id", `{"id":-4}`},
		{"string id", `{"id":"7"}`},
		{"malformed json", `{"id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, "POST", "/views", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, decodeError(t, body))
		})
	}

	status, body := env.do(t, "GET", "/blogs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body), "invalid input must not mutate")
}

func TestIncrementView(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "POST", "/increment-view", `{"id":9}`, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, decodeError(t, body))

	status, body = env.do(t, "GET", "/blogs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body), "increment-view must not create records")

	env.do(t, "POST", "/views", `{"id":9}`, nil)
	status, body = env.do(t, "POST", "/increment-view", `{"id":9}`, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"views":2}`, string(body))

	status, _ = env.do(t, "POST", "/increment-view", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestIncrementLike(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, "POST", "/increment-like", `{"id":5}`, nil)
	assert.Equal(t, http.StatusNotFound, status)

	env.do(t, "POST", "/views", `{"id":5,"title":"Five"}`, nil)
	status, body := env.do(t, "POST", "/increment-like", `{"id":5}`, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"likes":1}`, string(body))

	status, body = env.do(t, "GET", "/blogs/5", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.Blog{ID: 5, Title: "Five", Likes: 1, Views: 1}, decodeBlog(t, body))
}

func TestGet(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, "GET", "/blogs/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, "GET", "/blogs/404", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBlogs_BackfillRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "POST", "/blogs", `{"ids":[3,1,2]}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, decodeError(t, body))

	auth := map[string]string{"Authorization": "Bearer " + env.authToken}
	for i := 0; i < 2; i++ {
		status, body = env.do(t, "POST", "/blogs", `{"ids":[3,1,2,2]}`, auth)
		require.Equal(t, http.StatusOK, status, string(body))

		var blogs []models.Blog
		require.NoError(t, json.Unmarshal(body, &blogs))
		require.Len(t, blogs, 3)
		for j, blog := range blogs {
			assert.Equal(t, int64(j+1), blog.ID)
			assert.Equal(t, models.DefaultTitle, blog.Title)
		}
	}

	status, _ = env.do(t, "GET", "/blogs?ids=4,5", "", auth)
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, "GET", "/blogs", "", nil)
	require.Equal(t, http.StatusOK, status)
	var blogs []models.Blog
	require.NoError(t, json.Unmarshal(body, &blogs))
	assert.Len(t, blogs, 5)
}

func TestBlogs_PublicBackfill(t *testing.T) {
	env := newTestEnv(t, true)

	status, body := env.do(t, "GET", "/blogs?ids=2,1", "", nil)
	require.Equal(t, http.StatusOK, status)
	var blogs []models.Blog
	require.NoError(t, json.Unmarshal(body, &blogs))
	require.Len(t, blogs, 2)
	assert.Equal(t, int64(1), blogs[0].ID)

	status, _ = env.do(t, "GET", "/blogs?ids=1,x", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, "POST", "/blogs", `{"ids":[0]}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBlogs_ListSorted(t *testing.T) {
	env := newTestEnv(t, false)

	for _, id := range []string{"30", "10", "20"} {
		status, _ := env.do(t, "POST", "/views", `{"id":`+id+`}`, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := env.do(t, "POST", "/blogs", "", nil)
	require.Equal(t, http.StatusOK, status)
	var blogs []models.Blog
	require.NoError(t, json.Unmarshal(body, &blogs))
	require.Len(t, blogs, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{blogs[0].ID, blogs[1].ID, blogs[2].ID})
}

func TestBackfill_Manifest(t *testing.T) {
	env := newTestEnv(t, false)
	bearer := map[string]string{"Authorization": "Bearer " + env.authToken}

	status, _ := env.do(t, "POST", "/admin/backfill", `{"ids":[1]}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := env.do(t, "POST", "/admin/backfill", `{"blogs":[{"id":2,"title":"Two"}],"ids":[1,2]}`, bearer)
	require.Equal(t, fiber.StatusOK, status)
	var blogs []models.Blog
	require.NoError(t, json.Unmarshal(body, &blogs))
	require.Len(t, blogs, 2)
	assert.Equal(t, models.DefaultTitle, blogs[0].Title)
	assert.Equal(t, "Two", blogs[1].Title)

	status, _ = env.do(t, "POST", "/admin/backfill", `{"ids":[0]}`, bearer)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = env.do(t, "POST", "/admin/backfill", `{"ids":`, bearer)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestBackfill_YAML(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "POST", "/admin/backfill", "blogs:\n  - id: 5\n    title: Five\n", map[string]string{
		"Authorization": "Bearer " + env.authToken,
		"Content-Type":  "application/yaml",
	})
	require.Equal(t, fiber.StatusOK, status)
	var blogs []models.Blog
	require.NoError(t, json.Unmarshal(body, &blogs))
	require.Len(t, blogs, 1)
	assert.Equal(t, models.Blog{ID: 5, Title: "Five"}, blogs[0])
}
