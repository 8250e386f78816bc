package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dendrix-ai/dendrix-web/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), &config.TracingConfig{Enabled: false}, "dendrix-web", "test")

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, 0.0, SampleRatio(-1))
	assert.Equal(t, 0.25, SampleRatio(0.25))
	assert.Equal(t, 1.0, SampleRatio(3))
}

func TestMiddleware_PutsSpanInRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware("dendrix-web"))

	var sawSpan bool
	r.GET("/et", func(c *gin.Context) {
		sawSpan = trace.SpanFromContext(c.Request.Context()) != nil
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/et", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sawSpan)
}
