package server

import (
	"github.com/gin-gonic/gin"
)

// authorize gates a route on the actor's role for object and action.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authzSvc == nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// audit records a mutation. Failures are logged by the audit service and
// never fail the request.
func (s *Server) audit(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	var target *string
	if targetID != "" {
		target = &targetID
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	_ = s.auditSvc.AuditLog(c.Request.Context(), action, targetType, target, metadata)
}
