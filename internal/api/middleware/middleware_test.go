package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/floreria/catalog/internal/auth"
	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Parse(token string) (*auth.Identity, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(*auth.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func okHandler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth(t *testing.T) {
	uid := uuid.New()
	tokens := new(mockTokens)
	tokens.On("Parse", "good").Return(&auth.Identity{UserID: uid, Role: models.RoleUser}, nil)
	tokens.On("Parse", "bad").Return(nil, auth.ErrInvalidToken)

	var seen auth.Identity
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetIdentity(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uid, seen.UserID)
	tokens.AssertExpectations(t)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), auth.Identity{UserID: uuid.New(), Role: models.RoleUser}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), auth.Identity{UserID: uuid.New(), Role: models.RoleAdmin}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(http.HandlerFunc(okHandler))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			assert.Contains(t, rr.Body.String(), `"code":"rate_limited"`)
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestVisitorsSweepIdle(t *testing.T) {
	v := &visitors{entries: map[string]*limiterEntry{}, rps: rate.Limit(1), burst: 1}
	start := time.Now()
	require.True(t, v.allow("10.0.0.1", start))
	require.True(t, v.allow("10.0.0.2", start.Add(9*time.Minute)))
	assert.Len(t, v.entries, 2)

	// past the sweep interval; only the first visitor has been idle long enough
	require.True(t, v.allow("10.0.0.3", start.Add(15*time.Minute)))
	assert.NotContains(t, v.entries, "10.0.0.1")
	assert.Contains(t, v.entries, "10.0.0.2")
	assert.Contains(t, v.entries, "10.0.0.3")
}

func TestRecovery(t *testing.T) {
	h := RequestID(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestBodyLimit(t *testing.T) {
	h := BodyLimit(4)(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestLoggingRecordsCaller(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.L()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })

	uid := uuid.New()
	tokens := new(mockTokens)
	tokens.On("Parse", "good").Return(&auth.Identity{UserID: uid, Role: models.RoleAdmin}, nil)

	h := RequestID(Logging(Auth(tokens)(http.HandlerFunc(okHandler))))
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	req.Header.Set("X-Request-ID", "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, uid.String(), fields["user_id"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "/admin", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}
