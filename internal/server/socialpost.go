package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	socialdomain "github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

type createSocialPostRequest struct {
	Content     string     `json:"content" binding:"required"`
	MediaURLs   []string   `json:"media_urls" binding:"omitempty,dive,url"`
	Platforms   []string   `json:"platforms" binding:"required,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type updateSocialPostRequest struct {
	Content   *string  `json:"content"`
	MediaURLs []string `json:"media_urls" binding:"omitempty,dive,url"`
	Platforms []string `json:"platforms"`
}

type scheduleSocialPostRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type listSocialPostsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
}

func (s *Server) CreateSocialPost(c *gin.Context) {
	var req createSocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	post, err := s.socialSvc.Create(c.Request.Context(), socialdomain.CreatePostRequest{
		Content:     req.Content,
		MediaURLs:   req.MediaURLs,
		Platforms:   req.Platforms,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "social_post.create", authorization.ObjectSocialPost, post.ID.String(), map[string]any{
		"status": string(post.Status),
	})
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (s *Server) ListSocialPosts(c *gin.Context) {
	var query listSocialPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.socialSvc.List(c.Request.Context(), socialdomain.ListPostRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		Status: strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp.Posts, "page_info": resp.PageInfo})
}

func (s *Server) GetSocialPost(c *gin.Context) {
	post, err := s.socialSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (s *Server) UpdateSocialPost(c *gin.Context) {
	var req updateSocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	post, err := s.socialSvc.Update(c.Request.Context(), c.Param("id"), socialdomain.UpdatePostRequest{
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
		Platforms: req.Platforms,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "social_post.update", authorization.ObjectSocialPost, post.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (s *Server) DeleteSocialPost(c *gin.Context) {
	id := c.Param("id")
	if err := s.socialSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "social_post.delete", authorization.ObjectSocialPost, id, nil)
	c.Status(http.StatusNoContent)
}

func (s *Server) ScheduleSocialPost(c *gin.Context) {
	var req scheduleSocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	post, err := s.socialSvc.Schedule(c.Request.Context(), c.Param("id"), req.ScheduledAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "social_post.schedule", authorization.ObjectSocialPost, post.ID.String(), map[string]any{
		"scheduled_at": req.ScheduledAt,
	})
	c.JSON(http.StatusOK, gin.H{"data": post})
}

// PublishSocialPost publishes immediately. A failed publish is still audited
// because the post moved to FAILED.
func (s *Server) PublishSocialPost(c *gin.Context) {
	post, err := s.socialSvc.PublishNow(c.Request.Context(), c.Param("id"))
	if post != nil {
		s.audit(c, "social_post.publish", authorization.ObjectSocialPost, post.ID.String(), map[string]any{
			"status": string(post.Status),
		})
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}
