package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/pkg/types"
)

// Order is a placed order, read here only as the source of a quick reorder.
type Order struct {
	ID             uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID     uuid.UUID   `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID   uuid.UUID   `gorm:"column:restaurant_id;type:uuid;not null"`
	Subtotal       int64       `gorm:"column:subtotal;not null;default:0"`
	DeliveryFee    int64       `gorm:"column:delivery_fee;not null;default:0"`
	DiscountAmount int64       `gorm:"column:discount_amount;not null;default:0"`
	TotalAmount    int64       `gorm:"column:total_amount;not null;default:0"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

type OrderItem struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID          uuid.UUID             `gorm:"column:menu_item_id;type:uuid;not null"`
	Position            int                   `gorm:"column:position;not null;default:0"`
	Name                string                `gorm:"column:name;not null"`
	UnitPrice           int64                 `gorm:"column:unit_price;not null"`
	Quantity            int                   `gorm:"column:quantity;not null"`
	SelectedOptions     types.SelectedOptions `gorm:"column:selected_options;type:jsonb;serializer:json"`
	SpecialInstructions string                `gorm:"column:special_instructions;not null;default:''"`
}

func (o *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
