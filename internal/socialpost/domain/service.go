package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
)

// Publisher pushes a post to one social platform and returns the platform's post id.
type Publisher interface {
	Publish(ctx context.Context, platform string, post *Post) (string, error)
}

type CreatePostRequest struct {
	Content     string
	MediaURLs   []string
	Platforms   []string
	ScheduledAt *time.Time
}

type UpdatePostRequest struct {
	Content   *string
	MediaURLs []string
	Platforms []string
}

type ListPostRequest struct {
	pagination.Pagination
	Status string
}

type ListPostResponse struct {
	pagination.PageInfo
	Posts []*Post `json:"social_posts"`
}

type PublishDueResult struct {
	Due       int `json:"due"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)
	List(ctx context.Context, req ListPostRequest) (ListPostResponse, error)
	Delete(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string, at time.Time) (*Post, error)
	PublishNow(ctx context.Context, id string) (*Post, error)
	PublishDue(ctx context.Context, now time.Time) (PublishDueResult, error)
}

var (
	ErrInvalidClinic   = errors.New("invalid_clinic")
	ErrInvalidID       = errors.New("invalid_post_id")
	ErrInvalidContent  = errors.New("invalid_content")
	ErrInvalidPlatform = errors.New("invalid_platform")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrScheduleInPast  = errors.New("schedule_in_past")
	ErrPostNotEditable = errors.New("post_not_editable")
	ErrPostPublished   = errors.New("post_already_published")
	ErrPublishFailed   = errors.New("publish_failed")
	ErrNotFound        = errors.New("social_post_not_found")
)
