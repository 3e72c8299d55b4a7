package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/clinicdesk/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 64
)

// MiddlewareConfig controls request logging.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
	// QuietRoutes are logged at debug. Defaults to /health and /metrics.
	QuietRoutes []string
}

// GinMiddleware assigns a request id, seeds the request context with client
// details and writes one access line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	quiet := map[string]struct{}{"/health": {}, "/metrics": {}}
	if len(cfg.QuietRoutes) > 0 {
		quiet = make(map[string]struct{}, len(cfg.QuietRoutes))
		for _, route := range cfg.QuietRoutes {
			quiet[route] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFor(c)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		ctx = obscontext.WithClient(ctx, c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		level := levelFor(status)
		if _, ok := quiet[route]; ok {
			level = zapcore.DebugLevel
		}
		// AuthRequired replaces the request context, so clinic and actor
		// fields are only visible after the chain ran.
		ce := FromContext(c.Request.Context()).Check(level, "http.request")
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if ip, _ := obscontext.ClientFromContext(c.Request.Context()); ip != "" {
			fields = append(fields, zap.String("client_ip", ip))
		}
		if last := c.Errors.Last(); last != nil && cfg.ErrorClassifier != nil {
			errType, errCode := cfg.ErrorClassifier(last.Err)
			fields = append(fields, zap.String("error_type", errType), zap.String("error_code", errCode))
			if cfg.Debug && status >= http.StatusInternalServerError {
				fields = append(fields, zap.Error(last.Err))
			}
		}
		ce.Write(fields...)
	}
}

// levelFor keeps failed logins and permission denials visible at warn.
func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusTooManyRequests:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// requestIDFor honours a caller supplied id when it looks sane.
func requestIDFor(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if requestID == "" || len(requestID) > maxRequestIDLen || strings.ContainsAny(requestID, " \t\r\n") {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header(requestIDHeader, requestID)
	return requestID
}
