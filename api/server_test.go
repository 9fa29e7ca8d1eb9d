package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := newRouter(dbtest.New(t), withConfig(map[string]string{
		"ACCEPTED_ORIGINS": "https://blog.example.com",
	}))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), "body: %s", data)
	return v
}

func createTestPost(t *testing.T, srv *httptest.Server, body string) models.BlogPostDTO {
	t.Helper()
	resp, data := do(t, srv, http.MethodPost, "/blogs", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	return decode[models.BlogPostDTO](t, data)
}

func TestBlogRoutes_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)

	created := createTestPost(t, srv, `{"title":"New Blog Post","text":"This is the content.","tags":["java"]}`)
	require.NotZero(t, created.ID)

	resp, data := do(t, srv, http.MethodGet, "/blogs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	post := decode[models.BlogPostDTO](t, data)
	assert.Equal(t, "New Blog Post", post.Title)
	assert.Equal(t, []string{"java"}, post.Tags)

	resp, data = do(t, srv, http.MethodGet, "/blogs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.BlogPostDTO](t, data), 1)
}

func TestBlogRoutes_ListIsEmptyArray(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodGet, "/blogs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	resp, data = do(t, srv, http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))
}

func TestBlogRoutes_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	createTestPost(t, srv, `{"title":"t","text":"x"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"non numeric id", http.MethodGet, "/blogs/abc", "", "id"},
		{"zero id", http.MethodDelete, "/blogs/0", "", "id"},
		{"malformed json", http.MethodPost, "/blogs", `{"title":`, ""},
		{"missing title", http.MethodPost, "/blogs", `{"text":"x"}`, "title"},
		{"put without text", http.MethodPut, "/blogs/1", `{"title":"x"}`, "text"},
		{"add without names", http.MethodPost, "/blogs/1/tags", "", "tags"},
		{"add empty array", http.MethodPost, "/blogs/1/tags", `[]`, "tags"},
		{"tag without name", http.MethodPost, "/tags", `{}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", data)

			errResp := decode[ErrorResponse](t, data)
			assert.Equal(t, "error", errResp.Status)
			if tt.field != "" {
				assert.Equal(t, tt.field, errResp.Field)
			}
		})
	}
}

func TestBlogRoutes_MissingPostIs404(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/blogs/42", ""},
		{http.MethodPut, "/blogs/42", `{"title":"t","text":"x"}`},
		{http.MethodPatch, "/blogs/42", `{"text":"x"}`},
		{http.MethodPost, "/blogs/42/tags", `["a"]`},
		{http.MethodDelete, "/blogs/42/tags", `["a"]`},
		{http.MethodDelete, "/blogs/42", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, data := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, "body: %s", data)
		})
	}

	_, data := do(t, srv, http.MethodGet, "/tags", "")
	assert.JSONEq(t, `[]`, string(data))
}

func TestBlogRoutes_UpdateAndPatchAreAdditive(t *testing.T) {
	srv := newTestServer(t)
	created := createTestPost(t, srv, `{"title":"One","text":"old","tags":["a"]}`)

	resp, data := do(t, srv, http.MethodPut, "/blogs/1", `{"title":"Updated Blog Post","text":"new","tags":["b"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	updated := decode[models.BlogPostDTO](t, data)
	assert.Equal(t, created.ID, updated.ID)
	assert.ElementsMatch(t, []string{"a", "b"}, updated.Tags)

	resp, data = do(t, srv, http.MethodPatch, "/blogs/1", `{"title":"Patched","tags":["c"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	patched := decode[models.BlogPostDTO](t, data)
	assert.Equal(t, "Patched", patched.Title)
	assert.Equal(t, "new", patched.Text)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, patched.Tags)
}

func TestBlogRoutes_AddAndRemoveTags(t *testing.T) {
	srv := newTestServer(t)
	createTestPost(t, srv, `{"title":"One","text":"x","tags":["a"]}`)

	resp, data := do(t, srv, http.MethodPost, "/blogs/1/tags?tags=b,c", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, decode[models.BlogPostDTO](t, data).Tags)

	resp, data = do(t, srv, http.MethodDelete, "/blogs/1/tags", `["a","nonexistent"]`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "body: %s", data)

	resp, data = do(t, srv, http.MethodDelete, "/blogs/1/tags", `["a","b"]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	assert.Equal(t, []string{"c"}, decode[models.BlogPostDTO](t, data).Tags)

	resp, data = do(t, srv, http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.TagDTO](t, data), 3, "removing a tag from a post keeps the tag")
}

func TestBlogRoutes_CreateResponseMatchesGet(t *testing.T) {
	srv := newTestServer(t)
	resp, data := do(t, srv, http.MethodPost, "/tags", `{"name":"alpha"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	created := createTestPost(t, srv, `{"title":"One","text":"x","tags":["zeta","alpha"]}`)

	resp, data = do(t, srv, http.MethodGet, "/blogs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, decode[models.BlogPostDTO](t, data).Tags, created.Tags)
}

func TestBlogRoutes_Delete(t *testing.T) {
	srv := newTestServer(t)
	createTestPost(t, srv, `{"title":"One","text":"x","tags":["go"]}`)

	resp, data := do(t, srv, http.MethodDelete, "/blogs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, data)

	resp, _ = do(t, srv, http.MethodGet, "/blogs/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = do(t, srv, http.MethodGet, "/tags/1/posts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))
}

func TestTagRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodPost, "/tags", `{"name":"java"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	java := decode[models.TagDTO](t, data)
	assert.Equal(t, "java", java.Name)

	resp, data = do(t, srv, http.MethodPost, "/tags", `{"name":"java"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", data)

	resp, data = do(t, srv, http.MethodPut, "/tags/1", `{"name":"golang"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)
	assert.Equal(t, models.TagDTO{ID: java.ID, Name: "golang"}, decode[models.TagDTO](t, data))

	resp, _ = do(t, srv, http.MethodGet, "/tags/2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	createTestPost(t, srv, `{"title":"One","text":"x","tags":["golang"]}`)
	resp, data = do(t, srv, http.MethodGet, "/tags/1/posts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[1]`, string(data))

	resp, data = do(t, srv, http.MethodDelete, "/tags/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", data)

	resp, data = do(t, srv, http.MethodGet, "/blogs/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{}, decode[models.BlogPostDTO](t, data).Tags)

	resp, _ = do(t, srv, http.MethodDelete, "/tags/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOperationalRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, data := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[HealthResponse](t, data)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	do(t, srv, http.MethodGet, "/blogs", "")
	resp, data = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `blog_http_requests_total{method="GET",path="/blogs",status="200"}`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/blogs", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	preflight := func(origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/blogs", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	allowed := preflight("https://blog.example.com")
	assert.Equal(t, "https://blog.example.com", allowed.Header.Get("Access-Control-Allow-Origin"))

	blocked := preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, blocked.StatusCode)
}
