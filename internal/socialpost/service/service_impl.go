package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/observability/metrics"
	"github.com/smallbiznis/clinicdesk/internal/ratelimit"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	"github.com/smallbiznis/clinicdesk/pkg/db/option"
	"github.com/smallbiznis/clinicdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	publishJobName = "social-posts-publish"
	publishJobTTL  = 5 * time.Minute
	publishBatch   = 500
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Publisher domain.Publisher
	Guard     *ratelimit.RunGuard `optional:"true"`
	Metrics   *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	publisher domain.Publisher
	guard     *ratelimit.RunGuard
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	guard := p.Guard
	if guard == nil {
		guard = ratelimit.NewRunGuard(nil)
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("socialpost.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		publisher: p.Publisher,
		guard:     guard,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePostRequest) (*domain.Post, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidClinic
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}
	platforms, err := normalizePlatforms(req.Platforms)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	post := &domain.Post{
		ID:          s.genID.Generate(),
		ClinicID:    clinicID,
		Content:     content,
		MediaURLs:   datatypes.NewJSONSlice(normalizeURLs(req.MediaURLs)),
		Platforms:   datatypes.NewJSONSlice(platforms),
		Status:      domain.StatusDraft,
		ExternalIDs: datatypes.NewJSONType(map[string]string{}),
		CreatedBy:   cliniccontext.ActorIDPtr(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ScheduledAt != nil {
		at := req.ScheduledAt.UTC()
		if !at.After(now) {
			return nil, domain.ErrScheduleInPast
		}
		post.ScheduledAt = &at
		post.Status = domain.StatusScheduled
	}

	if err := s.repo.Insert(ctx, s.db, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Post, error) {
	clinicID, postID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, clinicID, postID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePostRequest) (*domain.Post, error) {
	clinicID, postID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.load(ctx, clinicID, postID)
	if err != nil {
		return nil, err
	}
	if !post.Status.Editable() {
		return nil, domain.ErrPostNotEditable
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, domain.ErrInvalidContent
		}
		fields["content"] = content
	}
	if req.Platforms != nil {
		platforms, err := normalizePlatforms(req.Platforms)
		if err != nil {
			return nil, err
		}
		fields["platforms"] = datatypes.NewJSONSlice(platforms)
	}
	if req.MediaURLs != nil {
		fields["media_urls"] = datatypes.NewJSONSlice(normalizeURLs(req.MediaURLs))
	}

	if err := s.repo.Update(ctx, s.db, postID, fields); err != nil {
		return nil, err
	}
	return s.load(ctx, clinicID, postID)
}

func (s *Service) List(ctx context.Context, req domain.ListPostRequest) (domain.ListPostResponse, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return domain.ListPostResponse{}, domain.ErrInvalidClinic
	}

	status := domain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status != "" {
		switch status {
		case domain.StatusDraft, domain.StatusScheduled, domain.StatusPublished, domain.StatusFailed:
		default:
			return domain.ListPostResponse{}, domain.ErrInvalidStatus
		}
	}
	if err := req.Pagination.Validate(); err != nil {
		return domain.ListPostResponse{}, err
	}

	posts, err := s.repo.List(ctx, s.db, clinicID,
		option.ApplyCondition(status != "", option.ApplyOperator("status", option.Equal, status)),
		option.ApplyPagination(req.Pagination),
	)
	if err != nil {
		return domain.ListPostResponse{}, err
	}

	posts, pageInfo := pagination.Trim(posts, pagination.Normalize(req.PageSize), func(p *domain.Post) string {
		return pagination.CursorFor(p.ID.String(), p.CreatedAt)
	})
	return domain.ListPostResponse{PageInfo: pageInfo, Posts: posts}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	clinicID, postID, err := s.scope(ctx, id)
	if err != nil {
		return err
	}
	post, err := s.load(ctx, clinicID, postID)
	if err != nil {
		return err
	}
	if post.Status == domain.StatusPublished {
		return domain.ErrPostPublished
	}
	return s.repo.Delete(ctx, s.db, postID)
}

func (s *Service) Schedule(ctx context.Context, id string, at time.Time) (*domain.Post, error) {
	clinicID, postID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.load(ctx, clinicID, postID)
	if err != nil {
		return nil, err
	}
	if !post.Status.Editable() {
		return nil, domain.ErrPostNotEditable
	}

	now := s.clock.Now()
	at = at.UTC()
	if !at.After(now) {
		return nil, domain.ErrScheduleInPast
	}

	claimed, err := s.repo.Claim(ctx, s.db, postID, []domain.Status{post.Status}, map[string]any{
		"status":       domain.StatusScheduled,
		"scheduled_at": at,
		"last_error":   "",
		"updated_at":   now,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, domain.ErrPostNotEditable
	}
	return s.load(ctx, clinicID, postID)
}

// PublishNow publishes regardless of scheduled_at. A platform failure leaves
// the post FAILED and returns publish_failed.
func (s *Service) PublishNow(ctx context.Context, id string) (*domain.Post, error) {
	clinicID, postID, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.load(ctx, clinicID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == domain.StatusPublished {
		return nil, domain.ErrPostPublished
	}

	ok, err := s.publish(ctx, post)
	if err != nil {
		return nil, err
	}
	updated, err := s.load(ctx, clinicID, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return updated, domain.ErrPublishFailed
	}
	return updated, nil
}

// PublishDue publishes every due scheduled post across clinics, one at a time.
func (s *Service) PublishDue(ctx context.Context, now time.Time) (domain.PublishDueResult, error) {
	var result domain.PublishDueResult
	err := s.guard.Run(ctx, publishJobName, publishJobTTL, func(ctx context.Context) error {
		posts, err := s.repo.ListDue(ctx, s.db, now, publishBatch)
		if err != nil {
			return err
		}
		result.Due = len(posts)

		for _, post := range posts {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := s.publish(ctx, post)
			switch {
			case errors.Is(err, errPostClaimed):
				result.Skipped++
			case err != nil:
				return err
			case ok:
				result.Published++
			default:
				result.Failed++
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	s.log.Info("scheduled posts processed",
		zap.Int("due", result.Due),
		zap.Int("published", result.Published),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

var errPostClaimed = errors.New("post_claimed")

// publish sends the post to each platform and records the outcome. The final
// write is conditional on the status the post was read with.
func (s *Service) publish(ctx context.Context, post *domain.Post) (bool, error) {
	externalIDs := map[string]string{}
	for k, v := range post.ExternalIDs.Data() {
		externalIDs[k] = v
	}

	var failures []string
	for _, platform := range post.Platforms {
		if _, done := externalIDs[platform]; done {
			continue
		}
		extID, err := s.publisher.Publish(ctx, platform, post)
		s.metrics.RecordPostPublished(ctx, platform, err == nil)
		if err != nil {
			s.log.Warn("publish failed",
				zap.String("post_id", post.ID.String()),
				zap.String("platform", platform),
				zap.Error(err),
			)
			failures = append(failures, err.Error())
			continue
		}
		externalIDs[platform] = extID
	}

	now := s.clock.Now()
	fields := map[string]any{
		"external_ids": datatypes.NewJSONType(externalIDs),
		"updated_at":   now,
	}
	if len(failures) == 0 {
		fields["status"] = domain.StatusPublished
		fields["published_at"] = now
		fields["last_error"] = ""
	} else {
		fields["status"] = domain.StatusFailed
		fields["last_error"] = strings.Join(failures, "; ")
	}

	claimed, err := s.repo.Claim(ctx, s.db, post.ID, []domain.Status{post.Status}, fields)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, errPostClaimed
	}
	return len(failures) == 0, nil
}

func (s *Service) scope(ctx context.Context, id string) (snowflake.ID, snowflake.ID, error) {
	clinicID, ok := cliniccontext.ClinicIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidClinic
	}
	postID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || postID == 0 {
		return 0, 0, domain.ErrInvalidID
	}
	return clinicID, postID, nil
}

func (s *Service) load(ctx context.Context, clinicID, id snowflake.ID) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, s.db, clinicID, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

func normalizePlatforms(in []string) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		p := strings.ToLower(strings.TrimSpace(raw))
		if !domain.ValidPlatform(p) {
			return nil, domain.ErrInvalidPlatform
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, domain.ErrInvalidPlatform
	}
	sort.Strings(out)
	return out, nil
}

func normalizeURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		if u := strings.TrimSpace(raw); u != "" {
			out = append(out, u)
		}
	}
	return out
}
