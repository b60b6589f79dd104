package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/pkg/db"
	"github.com/user941211/delivery-sub004/pkg/db/models"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
)

// Repository defines the persistence surface required by the cart service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the cart repository to the provided DB handle.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByCustomer returns the customer's cart with items in insertion order.
func (r *repository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("customer_id = ?", customerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("cart", customerID)
		}
		return nil, err
	}
	cart := cartFromModel(record)
	return &cart, nil
}

// Save writes the cart and replaces its items. A zero Version inserts a new cart;
// otherwise the row is updated only if its stored version still matches. Either
// race surfaces as CONFLICT. On success cart.Version holds the new version.
func (r *repository) Save(ctx context.Context, cart *domain.Cart) error {
	conn := r.db.WithContext(ctx)
	now := time.Now().UTC()

	if cart.Version == 0 {
		record := modelFromCart(*cart)
		record.Version = 1
		record.Items = nil
		if err := conn.Create(&record).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart was created concurrently")
			}
			return err
		}
		cart.ID = record.ID
		cart.Version = record.Version
		cart.CreatedAt = record.CreatedAt
		cart.UpdatedAt = record.UpdatedAt
	} else {
		res := conn.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]any{
				"restaurant_id": cart.RestaurantID,
				"version":       gorm.Expr("version + 1"),
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart was modified concurrently").
				WithDetails(map[string]any{"cart_id": cart.ID.String(), "version": cart.Version})
		}
		cart.Version++
		cart.UpdatedAt = now
	}

	if err := conn.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return nil
	}
	items := make([]models.CartItem, len(cart.Items))
	for idx, item := range cart.Items {
		items[idx] = itemModel(cart.ID, idx, item)
	}
	return conn.Create(&items).Error
}

// DeleteByCustomer removes the customer's cart. Deleting a missing cart is not an error.
func (r *repository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) error {
	conn := r.db.WithContext(ctx)
	var ids []uuid.UUID
	if err := conn.Model(&models.Cart{}).Where("customer_id = ?", customerID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := conn.Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return conn.Where("id IN ?", ids).Delete(&models.Cart{}).Error
}

func cartFromModel(record models.Cart) domain.Cart {
	cart := domain.Cart{
		ID:           record.ID,
		CustomerID:   record.CustomerID,
		RestaurantID: record.RestaurantID,
		Version:      record.Version,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
		Items:        make([]domain.Item, 0, len(record.Items)),
	}
	for _, row := range record.Items {
		item := domain.Item{
			ID:                  row.ID,
			MenuItemID:          row.MenuItemID,
			RestaurantID:        row.RestaurantID,
			Name:                row.Name,
			Description:         row.Description,
			BasePrice:           row.BasePrice,
			ImageURL:            row.ImageURL,
			Quantity:            row.Quantity,
			SelectedOptions:     row.SelectedOptions,
			SpecialInstructions: row.SpecialInstructions,
			Status:              row.Status,
			StatusMessage:       row.StatusMessage,
			Changes:             row.Warnings,
			LivePrice:           row.LivePrice,
			LiveOptionsPrice:    row.LiveOptionsPrice,
		}
		item.Recompute()
		cart.Items = append(cart.Items, item)
	}
	return cart
}

func modelFromCart(cart domain.Cart) models.Cart {
	return models.Cart{
		ID:           cart.ID,
		CustomerID:   cart.CustomerID,
		RestaurantID: cart.RestaurantID,
		Version:      cart.Version,
	}
}

func itemModel(cartID uuid.UUID, position int, item domain.Item) models.CartItem {
	return models.CartItem{
		ID:                  item.ID,
		CartID:              cartID,
		MenuItemID:          item.MenuItemID,
		RestaurantID:        item.RestaurantID,
		Position:            position,
		Name:                item.Name,
		Description:         item.Description,
		BasePrice:           item.BasePrice,
		ImageURL:            item.ImageURL,
		Quantity:            item.Quantity,
		SelectedOptions:     item.SelectedOptions,
		SpecialInstructions: item.SpecialInstructions,
		Status:              item.Status,
		StatusMessage:       item.StatusMessage,
		Warnings:            item.Changes,
		LivePrice:           item.LivePrice,
		LiveOptionsPrice:    item.LiveOptionsPrice,
	}
}
