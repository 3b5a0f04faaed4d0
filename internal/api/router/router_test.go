package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apexdigital/leadgen-platform/internal/auth"
	"github.com/apexdigital/leadgen-platform/internal/blog"
	"github.com/apexdigital/leadgen-platform/internal/leads"
)

type stubPostRepo struct{}

func (stubPostRepo) ListPublished(ctx context.Context) ([]*blog.Post, error) {
	return []*blog.Post{{Slug: "hello", Published: true}}, nil
}
func (stubPostRepo) ListAll(ctx context.Context) ([]*blog.Post, error) { return nil, nil }
func (stubPostRepo) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	return nil, blog.ErrPostNotFound
}
func (stubPostRepo) Create(ctx context.Context, req *blog.CreatePostRequest) (*blog.Post, error) {
	return nil, blog.ErrReadOnlyStore
}
func (stubPostRepo) Update(ctx context.Context, id string, req *blog.UpdatePostRequest) (*blog.Post, error) {
	return nil, blog.ErrReadOnlyStore
}
func (stubPostRepo) Delete(ctx context.Context, id string) error { return blog.ErrReadOnlyStore }
func (stubPostRepo) IncrementViews(ctx context.Context, id string) error {
	return blog.ErrReadOnlyStore
}

type stubLeadRepo struct{}

func (stubLeadRepo) List(ctx context.Context) ([]*leads.Lead, error) { return nil, nil }
func (stubLeadRepo) GetByID(ctx context.Context, id string) (*leads.Lead, error) {
	return nil, leads.ErrLeadNotFound
}
func (stubLeadRepo) Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	return nil, leads.ErrReadOnlyStore
}
func (stubLeadRepo) Update(ctx context.Context, id string, req *leads.UpdateLeadRequest) (*leads.Lead, error) {
	return nil, leads.ErrLeadNotFound
}
func (stubLeadRepo) Delete(ctx context.Context, id string) error { return leads.ErrLeadNotFound }

func testRouter(t *testing.T) (http.Handler, *auth.Authenticator) {
	t.Helper()
	entry := "admin:salt:" + auth.HashPassword("salt", "router-test-password")
	authenticator, err := auth.NewAuthenticator([]string{entry}, "router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	cfg := &Config{
		BlogHandler:   blog.NewHandler(stubPostRepo{}, nil),
		LeadsHandler:  leads.NewHandler(stubLeadRepo{}, nil),
		AuthHandler:   auth.NewHandler(authenticator, time.Hour, nil),
		Authenticator: authenticator,
		DataSource:    "demo",
	}
	return New(cfg), authenticator
}

func TestHealthCheckReportsDataSource(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["data_source"] != "demo" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestPublicBlogRoute(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r, _ := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/leads"},
		{http.MethodGet, "/admin/leads/export"},
		{http.MethodGet, "/admin/posts"},
		{http.MethodGet, "/admin/dashboard"},
	}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestAdminRouteWithToken(t *testing.T) {
	r, authenticator := testRouter(t)

	token, err := authenticator.Authenticate("admin", "router-test-password")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestLoginRouteIsPublic(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil))

	// Bad body, but the route itself must be reachable without a token.
	if rec.Code == http.StatusUnauthorized && rec.Body.String() == "missing authorization header\n" {
		t.Fatal("login must not sit behind the auth gate")
	}
}
