package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/ratelimit"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/publisher"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/repository"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       domain.Service
	clock     *clock.FakeClock
	publisher *publisher.Mock
	guard     *ratelimit.RunGuard
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Post{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(now)
	pub := publisher.NewMock(zap.NewNop())
	guard := ratelimit.NewRunGuard(nil)
	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      repository.Provide(),
		Publisher: pub,
		Guard:     guard,
	})
	return fixture{svc: svc, clock: fake, publisher: pub, guard: guard}
}

func clinicCtx(id int64) context.Context {
	return cliniccontext.WithClinicID(context.Background(), snowflake.ID(id))
}

func TestCreateValidatesPlatforms(t *testing.T) {
	f := newFixture(t)
	ctx := clinicCtx(1)

	_, err := f.svc.Create(ctx, domain.CreatePostRequest{Content: "Yoga day", Platforms: []string{"myspace"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)

	_, err = f.svc.Create(ctx, domain.CreatePostRequest{Content: " ", Platforms: []string{"facebook"}})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)

	post, err := f.svc.Create(ctx, domain.CreatePostRequest{
		Content:   "Yoga day",
		Platforms: []string{"Instagram", "facebook", "instagram"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, post.Status)
	assert.Equal(t, []string{"facebook", "instagram"}, []string(post.Platforms))
}

func TestScheduleMustBeInFuture(t *testing.T) {
	f := newFixture(t)
	ctx := clinicCtx(1)

	post, err := f.svc.Create(ctx, domain.CreatePostRequest{Content: "Hello", Platforms: []string{"twitter"}})
	require.NoError(t, err)

	_, err = f.svc.Schedule(ctx, post.ID.String(), now.Add(-time.Minute))
	assert.ErrorIs(t, err, domain.ErrScheduleInPast)

	scheduled, err := f.svc.Schedule(ctx, post.ID.String(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledAt)
}

func TestPublishDuePublishesOnlyDuePosts(t *testing.T) {
	f := newFixture(t)

	at := now.Add(30 * time.Minute)
	due, err := f.svc.Create(clinicCtx(1), domain.CreatePostRequest{Content: "due", Platforms: []string{"facebook", "linkedin"}, ScheduledAt: &at})
	require.NoError(t, err)
	later := now.Add(3 * time.Hour)
	notDue, err := f.svc.Create(clinicCtx(2), domain.CreatePostRequest{Content: "later", Platforms: []string{"facebook"}, ScheduledAt: &later})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	result, err := f.svc.PublishDue(context.Background(), f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Due)
	assert.Equal(t, 1, result.Published)

	got, err := f.svc.Get(clinicCtx(1), due.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	assert.NotNil(t, got.PublishedAt)
	assert.Len(t, got.ExternalIDs.Data(), 2)

	pending, err := f.svc.Get(clinicCtx(2), notDue.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, pending.Status)

	// A second run finds nothing left to do.
	result, err = f.svc.PublishDue(context.Background(), f.clock.Now())
	require.NoError(t, err)
	assert.Zero(t, result.Due)
}

func TestPublishFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	ctx := clinicCtx(1)
	f.publisher.FailOn("twitter", errors.New("rate limited"))

	post, err := f.svc.Create(ctx, domain.CreatePostRequest{Content: "Hi", Platforms: []string{"twitter", "facebook"}})
	require.NoError(t, err)

	got, err := f.svc.PublishNow(ctx, post.ID.String())
	assert.ErrorIs(t, err, domain.ErrPublishFailed)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Contains(t, got.LastError, "rate limited")
	assert.Contains(t, got.ExternalIDs.Data(), "facebook")

	// Retrying after the platform recovers only publishes the missing platform.
	f.publisher.FailOn("twitter", nil)
	got, err = f.svc.PublishNow(ctx, post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	assert.Len(t, got.ExternalIDs.Data(), 2)
}

func TestPublishedPostIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := clinicCtx(1)

	post, err := f.svc.Create(ctx, domain.CreatePostRequest{Content: "Hi", Platforms: []string{"facebook"}})
	require.NoError(t, err)
	_, err = f.svc.PublishNow(ctx, post.ID.String())
	require.NoError(t, err)

	content := "edited"
	_, err = f.svc.Update(ctx, post.ID.String(), domain.UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, domain.ErrPostNotEditable)
	assert.ErrorIs(t, f.svc.Delete(ctx, post.ID.String()), domain.ErrPostPublished)
	_, err = f.svc.PublishNow(ctx, post.ID.String())
	assert.ErrorIs(t, err, domain.ErrPostPublished)
}

func TestPublishDueRejectsOverlappingRun(t *testing.T) {
	f := newFixture(t)

	err := f.guard.Run(context.Background(), publishJobName, time.Minute, func(ctx context.Context) error {
		_, err := f.svc.PublishDue(ctx, now)
		return err
	})
	assert.ErrorIs(t, err, ratelimit.ErrJobRunning)
}
