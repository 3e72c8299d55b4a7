package logger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/clinicdesk/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGinMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = obscontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", maxRequestIDLen+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, strings.Repeat("a", maxRequestIDLen+1), seen)
	assert.Len(t, seen, 36)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, levelFor(http.StatusOK))
	assert.Equal(t, zapcore.InfoLevel, levelFor(http.StatusBadRequest))
	assert.Equal(t, zapcore.WarnLevel, levelFor(http.StatusUnauthorized))
	assert.Equal(t, zapcore.WarnLevel, levelFor(http.StatusTooManyRequests))
	assert.Equal(t, zapcore.ErrorLevel, levelFor(http.StatusBadGateway))
}
