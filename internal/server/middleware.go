package server

import (
	"crypto/subtle"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	obscontext "github.com/smallbiznis/clinicdesk/internal/observability/context"
)

const HeaderCronSecret = "X-Cron-Secret"

// AuthRequired resolves the session cookie into clinic scope and actor.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.authsvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = cliniccontext.WithClinicID(ctx, claims.ClinicID)
		ctx = cliniccontext.WithActor(ctx, cliniccontext.Actor{UserID: claims.UserID, Role: claims.Role})
		ctx = obscontext.WithClinicID(ctx, claims.ClinicID.String())
		ctx = obscontext.WithActor(ctx, "user", claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CronSecretRequired guards the endpoints an external scheduler calls.
// With no secret configured the endpoints do not exist.
func (s *Server) CronSecretRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := strings.TrimSpace(s.cfg.CronSecret)
		if expected == "" {
			AbortWithError(c, ErrNotFound)
			return
		}
		got := strings.TrimSpace(c.GetHeader(HeaderCronSecret))
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		ctx := obscontext.WithActor(c.Request.Context(), "system", "cron")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.loginLimiter == nil {
			c.Next()
			return
		}
		ok, retryAfter := s.loginLimiter.Allow(c.Request.Context(), c.ClientIP())
		if ok {
			c.Next()
			return
		}
		if secs := int(math.Ceil(retryAfter.Seconds())); secs > 0 {
			c.Header("Retry-After", strconv.Itoa(secs))
		}
		s.obsMetrics.RecordLoginDenied(c.Request.Context(), "rate_limited")
		AbortWithError(c, ErrTooManyRequests)
	}
}
