package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/clinicdesk/internal/audit/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

type listAuditLogsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	Action    string `form:"action"`
	Object    string `form:"object"`
	TargetID  string `form:"target_id"`
	ActorType string `form:"actor_type" binding:"omitempty,oneof=user system"`
	ActorID   string `form:"actor_id"`
	From      string `form:"from"`
	To        string `form:"to"`
}

// ListAuditLogs serves the clinic's audit trail, e.g.
// ?object=bill&target_id=<bill id> for the history of one bill.
func (s *Server) ListAuditLogs(c *gin.Context) {
	var query listAuditLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	from, err := parseTimeField(query.From, "from", false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	to, err := parseTimeField(query.To, "to", true)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if query.ActorID != "" {
		if _, err := parseSnowflakeField(query.ActorID, "actor_id"); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	resp, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListAuditLogRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.Object),
		TargetID:   strings.TrimSpace(query.TargetID),
		ActorType:  query.ActorType,
		ActorID:    strings.TrimSpace(query.ActorID),
		StartAt:    from,
		EndAt:      to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.AuditLogs, "page_info": resp.PageInfo})
}
