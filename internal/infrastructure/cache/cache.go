package cache

import (
	"context"
	"time"

	"github.com/clinova/pos-api/internal/domain/entity"
)

// BenefitsCache caches customer membership benefits so the eligibility check
// on every item added at the register does not hit the database each time.
type BenefitsCache interface {
	Get(ctx context.Context, key string) (*entity.MemberBenefits, bool, error)
	Set(ctx context.Context, key string, value *entity.MemberBenefits, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NoopBenefitsCache satisfies BenefitsCache without caching anything. Used
// when no redis address is configured.
type NoopBenefitsCache struct{}

func (NoopBenefitsCache) Get(_ context.Context, _ string) (*entity.MemberBenefits, bool, error) {
	return nil, false, nil
}

func (NoopBenefitsCache) Set(_ context.Context, _ string, _ *entity.MemberBenefits, _ time.Duration) error {
	return nil
}

func (NoopBenefitsCache) Delete(_ context.Context, _ string) error {
	return nil
}
