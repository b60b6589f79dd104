// Package restaurants loads the delivery context of a restaurant.
package restaurants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/internal/delivery"
	"github.com/user941211/delivery-sub004/internal/upstream"
	"github.com/user941211/delivery-sub004/pkg/config"
	"github.com/user941211/delivery-sub004/pkg/db/models"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
	"github.com/user941211/delivery-sub004/pkg/types"
)

// Profile is what pricing needs to know about a restaurant.
type Profile struct {
	ID             uuid.UUID
	Name           string
	Location       types.GeoPoint
	IsOpen         bool
	MinOrderAmount int64
	Delivery       delivery.Config
}

// Provider returns restaurant profiles.
type Provider interface {
	Profile(ctx context.Context, id uuid.UUID) (*Profile, error)
}

// DefaultsFromConfig converts platform pricing settings into a delivery config.
func DefaultsFromConfig(cfg config.PricingConfig) delivery.Config {
	bands := make([]delivery.Band, 0, len(cfg.DistanceBands))
	for _, band := range cfg.DistanceBands {
		bands = append(bands, delivery.Band{UpToKm: band.UpToKm, Surcharge: band.Surcharge})
	}
	return delivery.Config{
		BaseFee:         cfg.BaseFee,
		Bands:           bands,
		FreeDeliveryMin: cfg.FreeDeliveryMin,
		ServiceRadiusKm: cfg.ServiceRadiusKm,
	}
}

// Repository reads restaurants and fills unset delivery columns from platform defaults.
type Repository struct {
	db       *gorm.DB
	defaults delivery.Config
}

// NewRepository binds a repository to the provided DB handle.
func NewRepository(db *gorm.DB, defaults delivery.Config) *Repository {
	return &Repository{db: db, defaults: defaults}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, defaults: r.defaults}
}

// Profile returns the restaurant's delivery context or NOT_FOUND.
func (r *Repository) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var row models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("restaurant", id)
		}
		return nil, err
	}
	return profileFromModel(row, r.defaults), nil
}

func profileFromModel(row models.Restaurant, defaults delivery.Config) *Profile {
	cfg := defaults
	cfg.Bands = append([]delivery.Band(nil), defaults.Bands...)
	if row.BaseDeliveryFee != nil {
		cfg.BaseFee = *row.BaseDeliveryFee
	}
	if row.FreeDeliveryMin != nil {
		cfg.FreeDeliveryMin = *row.FreeDeliveryMin
	}
	if row.ServiceRadiusKm != nil {
		cfg.ServiceRadiusKm = *row.ServiceRadiusKm
	}
	return &Profile{
		ID:             row.ID,
		Name:           row.Name,
		Location:       row.Location(),
		IsOpen:         row.IsOpen,
		MinOrderAmount: row.MinOrderAmount,
		Delivery:       cfg,
	}
}

// GuardedProvider bounds profile fetches with a timeout and a circuit breaker.
type GuardedProvider struct {
	inner   Provider
	breaker *upstream.Breaker[*Profile]
}

// NewGuardedProvider wraps inner with the breaker settings.
func NewGuardedProvider(inner Provider, settings upstream.Settings) *GuardedProvider {
	return &GuardedProvider{inner: inner, breaker: upstream.NewBreaker[*Profile]("restaurants", settings)}
}

func (g *GuardedProvider) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return g.breaker.Do(ctx, func(ctx context.Context) (*Profile, error) {
		return g.inner.Profile(ctx, id)
	})
}
