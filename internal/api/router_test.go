package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/floreria/catalog/internal/api/handlers"
	"github.com/floreria/catalog/internal/auth"
	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// newTestRouter wires handlers without services; every request below is
// answered before a service would be reached.
func newTestRouter(tokens *auth.TokenManager) http.Handler {
	return NewRouter(Dependencies{
		Tokens:            tokens,
		HealthHandler:     handlers.NewHealthHandler(nil),
		ProductsHandler:   handlers.NewProductsHandler(nil),
		CategoriesHandler: handlers.NewCategoriesHandler(nil),
		PromotionsHandler: handlers.NewPromotionsHandler(nil),
		UsersHandler:      handlers.NewUsersHandler(nil, nil),
		ImagesHandler:     handlers.NewImagesHandler(nil),
		AdminHandler:      handlers.NewAdminHandler(nil),
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		MaxBodyBytes:      1 << 20,
	})
}

func issue(t *testing.T, tokens *auth.TokenManager, role models.Role) string {
	t.Helper()
	tok, err := tokens.Issue(&models.User{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRouterGates(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("router-test-secret"), time.Hour)
	r := newTestRouter(tokens)
	admin := issue(t, tokens, models.RoleAdmin)
	user := issue(t, tokens, models.RoleUser)

	cases := []struct {
		name   string
		method string
		path   string
		authz  string
		body   string
		want   int
	}{
		{"liveness", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"readiness without db", http.MethodGet, "/readyz", "", "", http.StatusOK},
		{"create product anonymous", http.MethodPost, "/products/create", "", `{}`, http.StatusUnauthorized},
		{"create product as user", http.MethodPost, "/products/create", user, `{}`, http.StatusForbidden},
		{"create product as admin reaches handler", http.MethodPost, "/products/create", admin, `{`, http.StatusBadRequest},
		{"bad token", http.MethodDelete, "/categories/" + uuid.NewString(), "Bearer nope", "", http.StatusUnauthorized},
		{"apply promotion as user", http.MethodPost, "/promotions/" + uuid.NewString() + "/apply", user, `{}`, http.StatusForbidden},
		{"list users as user", http.MethodGet, "/users", user, "", http.StatusForbidden},
		{"other user profile", http.MethodGet, "/users/" + uuid.NewString(), user, "", http.StatusForbidden},
		{"profile anonymous", http.MethodGet, "/users/" + uuid.NewString(), "", "", http.StatusUnauthorized},
		{"register reaches handler", http.MethodPost, "/users/register", "", `{}`, http.StatusBadRequest},
		{"public image bad id", http.MethodGet, "/images/not-a-uuid", "", "", http.StatusBadRequest},
		{"image upload as user", http.MethodPost, "/images/products/" + uuid.NewString() + "/images", user, `{}`, http.StatusForbidden},
		{"set main anonymous", http.MethodPatch, "/images/products/" + uuid.NewString() + "/images/" + uuid.NewString() + "/main", "", "", http.StatusUnauthorized},
		{"verify anonymous", http.MethodGet, "/verifyToken", "", "", http.StatusUnauthorized},
		{"dashboard as user", http.MethodGet, "/admin", user, "", http.StatusForbidden},
		{"unknown", http.MethodGet, "/projects", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			if tc.authz != "" {
				req.Header.Set("Authorization", tc.authz)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouterBodyLimit(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("router-test-secret"), time.Hour)
	r := newTestRouter(tokens)

	body := `{"nombre":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusBadRequest}, rr.Code)
}
