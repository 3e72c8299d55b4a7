// Package publisher holds social platform publishers.
package publisher

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/clinicdesk/internal/socialpost/domain"
	"go.uber.org/zap"
)

// Mock logs the post and hands back a ulid as the platform post id.
type Mock struct {
	log *zap.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	fail    map[string]error
}

func NewMock(log *zap.Logger) *Mock {
	return &Mock{
		log:     log.Named("socialpost.publisher"),
		entropy: ulid.Monotonic(rand.Reader, 0),
		fail:    map[string]error{},
	}
}

// Provide exposes the mock as the domain publisher.
func Provide(log *zap.Logger) domain.Publisher {
	return NewMock(log)
}

// FailOn makes every publish to platform return err.
func (m *Mock) FailOn(platform string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[platform] = err
}

func (m *Mock) Publish(ctx context.Context, platform string, post *domain.Post) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail[platform]; err != nil {
		return "", fmt.Errorf("%s: %w", platform, err)
	}

	id, err := ulid.New(ulid.Timestamp(time.Now()), m.entropy)
	if err != nil {
		return "", err
	}
	m.log.Info("post published",
		zap.String("platform", platform),
		zap.String("post_id", post.ID.String()),
		zap.String("external_id", id.String()),
	)
	return platform + "_" + id.String(), nil
}
