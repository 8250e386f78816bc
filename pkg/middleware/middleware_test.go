package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dendrix-ai/dendrix-web/pkg/config"
	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"github.com/dendrix-ai/dendrix-web/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.String(http.StatusOK, "ok") }

func TestRequireAdminToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		status int
	}{
		{"disabled without token", "", "anything", http.StatusNotFound},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong header", "s3cret", "nope", http.StatusUnauthorized},
		{"valid", "s3cret", "s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", RequireAdminToken(tt.token), ok)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(AdminTokenHeader, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeaders(hsts))
		r.GET("/", ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, hsts, w.Header().Get("Strict-Transport-Security") != "")
	}
}

func TestCorrelationID(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/", func(c *gin.Context) {
		fromCtx = logger.CorrelationIDFromContext(c.Request.Context())
		assert.Equal(t, fromCtx, GetCorrelationID(c))
		ok(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, fromCtx)
	assert.Equal(t, fromCtx, w.Header().Get(CorrelationIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", fromCtx)
	assert.Equal(t, "abc-123", w.Header().Get(CorrelationIDHeader))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/submit", RateLimit(nil), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func newMockLimiter(t *testing.T) (*ratelimit.Limiter, redismock.ClientMock, string) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	limiter := ratelimit.NewLimiter(client, config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		Limit:         2,
		RedisPrefix:   "rl",
	})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.WithNow(func() time.Time { return now })

	bucket := now.UnixMilli() / time.Minute.Milliseconds()
	key := "rl:/submit:192.0.2.1:" + strconv.FormatInt(bucket, 10)
	return limiter, mock, key
}

func submit(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "192.0.2.1:4321"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Allows(t *testing.T) {
	limiter, mock, key := newMockLimiter(t)
	mock.ExpectEvalSha(limiter.ScriptHash(), []string{key}, int64(60000)).
		SetVal([]interface{}{int64(1), int64(60000)})

	r := gin.New()
	r.POST("/submit", RateLimit(limiter), ok)
	w := submit(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimit_Rejects(t *testing.T) {
	limiter, mock, key := newMockLimiter(t)
	mock.ExpectEvalSha(limiter.ScriptHash(), []string{key}, int64(60000)).
		SetVal([]interface{}{int64(3), int64(1500)})

	r := gin.New()
	r.POST("/submit", RateLimit(limiter), ok)
	w := submit(r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter, mock, key := newMockLimiter(t)
	mock.ExpectEvalSha(limiter.ScriptHash(), []string{key}, int64(60000)).
		SetErr(errors.New("connection refused"))

	r := gin.New()
	r.POST("/submit", RateLimit(limiter), ok)
	w := submit(r)

	assert.Equal(t, http.StatusOK, w.Code)
}
