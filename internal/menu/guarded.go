package menu

import (
	"context"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/internal/upstream"
)

// GuardedProvider bounds snapshot fetches with a timeout and a circuit breaker.
type GuardedProvider struct {
	inner   Provider
	breaker *upstream.Breaker[*Snapshot]
}

// NewGuardedProvider wraps inner with the breaker settings.
func NewGuardedProvider(inner Provider, settings upstream.Settings) *GuardedProvider {
	return &GuardedProvider{
		inner:   inner,
		breaker: upstream.NewBreaker[*Snapshot]("menu", settings),
	}
}

func (g *GuardedProvider) Snapshot(ctx context.Context, restaurantID uuid.UUID) (*Snapshot, error) {
	return g.breaker.Do(ctx, func(ctx context.Context) (*Snapshot, error) {
		return g.inner.Snapshot(ctx, restaurantID)
	})
}
