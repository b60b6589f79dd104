package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/pkg/enums"
	"github.com/user941211/delivery-sub004/pkg/types"
)

// Cart is a customer's in-progress order. A customer holds at most one cart,
// scoped to a single restaurant. Version increments on every save and guards
// concurrent writers.
type Cart struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID   uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:ux_carts_customer"`
	RestaurantID uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Version      int64      `gorm:"column:version;not null"`
	Items        []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// CartItem stores the captured menu snapshot next to the last observed live prices.
type CartItem struct {
	ID                  uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	CartID              uuid.UUID              `gorm:"column:cart_id;type:uuid;not null;index"`
	MenuItemID          uuid.UUID              `gorm:"column:menu_item_id;type:uuid;not null"`
	RestaurantID        uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null"`
	Position            int                    `gorm:"column:position;not null;default:0"`
	Name                string                 `gorm:"column:name;not null"`
	Description         string                 `gorm:"column:description;not null;default:''"`
	BasePrice           int64                  `gorm:"column:base_price;not null"`
	ImageURL            string                 `gorm:"column:image_url;not null;default:''"`
	Quantity            int                    `gorm:"column:quantity;not null"`
	SelectedOptions     types.SelectedOptions  `gorm:"column:selected_options;type:jsonb;serializer:json"`
	SpecialInstructions string                 `gorm:"column:special_instructions;not null;default:''"`
	Status              enums.CartItemStatus   `gorm:"column:status;not null;default:'active'"`
	StatusMessage       string                 `gorm:"column:status_message;not null;default:''"`
	Warnings            types.CartItemWarnings `gorm:"column:warnings;type:jsonb;serializer:json"`
	LivePrice           *int64                 `gorm:"column:live_price"`
	LiveOptionsPrice    *int64                 `gorm:"column:live_options_price"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
