package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Both jobs hold a run guard inside the service, so overlapping calls get 409.

func (s *Server) RunPublishDuePosts(c *gin.Context) {
	result, err := s.socialSvc.PublishDue(c.Request.Context(), s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	zap.L().Info("cron publish due posts",
		zap.Int("due", result.Due),
		zap.Int("published", result.Published),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) RunMarkOverdueBills(c *gin.Context) {
	updated, err := s.billingSvc.MarkOverdue(c.Request.Context(), s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	zap.L().Info("cron mark overdue bills", zap.Int64("updated", updated))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": updated}})
}
