package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/pkg/db/models"
)

// CatalogProvider returns the discount rules potentially applicable to a restaurant's carts.
type CatalogProvider interface {
	Catalog(ctx context.Context, restaurantID uuid.UUID) ([]Rule, error)
}

// Repository reads the discount catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Catalog returns active platform-wide and restaurant rules in catalog order.
func (r *Repository) Catalog(ctx context.Context, restaurantID uuid.UUID) ([]Rule, error) {
	var rows []models.Discount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("restaurant_id IS NULL OR restaurant_id = ?", restaurantID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	rules := make([]Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, ruleFromModel(row))
	}
	return rules, nil
}

func ruleFromModel(row models.Discount) Rule {
	return Rule{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		Kind:              row.Kind,
		Value:             row.Value,
		MinOrderAmount:    row.MinOrderAmount,
		MaxDiscountAmount: row.MaxDiscountAmount,
		Stackable:         row.Stackable,
		StackableWith:     []uuid.UUID(row.StackableWith),
		RestaurantID:      row.RestaurantID,
		FirstOrderOnly:    row.FirstOrderOnly,
		StartsAt:          row.StartsAt,
		EndsAt:            row.EndsAt,
	}
}
