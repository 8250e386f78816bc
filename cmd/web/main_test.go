package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dendrix-ai/dendrix-web/internal/content"
	"github.com/dendrix-ai/dendrix-web/internal/leads"
	"github.com/dendrix-ai/dendrix-web/internal/locale"
	"github.com/dendrix-ai/dendrix-web/internal/variants"
	"github.com/dendrix-ai/dendrix-web/pkg/common"
	"github.com/dendrix-ai/dendrix-web/pkg/config"
	"github.com/dendrix-ai/dendrix-web/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(checks map[string]common.CheckFunc, adminToken string) *app {
	cfg := &config.Config{
		Server: config.ServerConfig{
			ServiceName:    "dendrix-web",
			Version:        "test",
			RequestTimeout: 2 * time.Second,
			CORSOrigins:    "https://dendrix.ai",
		},
		Variants: config.VariantsConfig{SessionCookie: "dx_session"},
		Admin:    config.AdminConfig{Token: adminToken},
	}

	return &app{
		cfg:          cfg,
		negotiator:   locale.NewNegotiator(locale.Config{Supported: []string{"et", "en", "ru"}, Default: "et"}),
		variants:     variants.NewService(nil),
		caches:       variants.NewMemoryStore(time.Minute),
		content:      content.NewService(nil),
		leads:        leads.NewService(nil, nil, "dendrix"),
		healthChecks: checks,
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(testApp(map[string]common.CheckFunc{
		"database": func(context.Context) error { return nil },
	}, ""))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"database":"healthy"`)
	assert.NotEmpty(t, w.Header().Get(middleware.CorrelationIDHeader))
}

func TestRouter_HealthzUnhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := newRouter(testApp(map[string]common.CheckFunc{
		"database": func(context.Context) error { return errors.New("down") },
	}, ""))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouter_RedirectsUnprefixedPages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/concepts?stage=explore", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
	w := serve(r, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/ru/concepts?stage=explore", w.Header().Get("Location"))
}

func TestRouter_RootRedirectsToDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/et", w.Header().Get("Location"))
}

func TestRouter_StagesPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/en/stages", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	var localeCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == locale.DefaultCookieName {
			localeCookie = ck
		}
	}
	require.NotNil(t, localeCookie)
	assert.Equal(t, "en", localeCookie.Value)
}

func TestRouter_AdminHiddenWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/variants", nil)
	req.Header.Set(middleware.AdminTokenHeader, "anything")
	w := serve(r, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AdminRejectsWrongToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, "s3cret"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/variants", nil)
	req.Header.Set(middleware.AdminTokenHeader, "wrong")
	w := serve(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_VariantWithoutStoreFallsBackToDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/variants/home:headline?locale=et", nil)
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"found":false`)
}

func TestRouter_KeepsCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testApp(nil, ""))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.CorrelationIDHeader, "req-123")
	w := serve(r, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.CorrelationIDHeader))
}

func TestCorsConfig(t *testing.T) {
	cfg := corsConfig(" https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)

	cfg = corsConfig("")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, requestTimeout(0))
	assert.Equal(t, time.Second, requestTimeout(time.Second))
}
