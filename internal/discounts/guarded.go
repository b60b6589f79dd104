package discounts

import (
	"context"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/internal/upstream"
)

// GuardedCatalog bounds catalog fetches with a timeout and a circuit breaker.
type GuardedCatalog struct {
	inner   CatalogProvider
	breaker *upstream.Breaker[[]Rule]
}

// NewGuardedCatalog wraps inner with the breaker settings.
func NewGuardedCatalog(inner CatalogProvider, settings upstream.Settings) *GuardedCatalog {
	return &GuardedCatalog{
		inner:   inner,
		breaker: upstream.NewBreaker[[]Rule]("discounts", settings),
	}
}

func (g *GuardedCatalog) Catalog(ctx context.Context, restaurantID uuid.UUID) ([]Rule, error) {
	return g.breaker.Do(ctx, func(ctx context.Context) ([]Rule, error) {
		return g.inner.Catalog(ctx, restaurantID)
	})
}
