package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/pkg/enums"

	dbtypes "github.com/user941211/delivery-sub004/pkg/db/types"
)

// Discount is a catalog promotion. A nil RestaurantID applies platform-wide.
type Discount struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID      *uuid.UUID         `gorm:"column:restaurant_id;type:uuid;index"`
	Name              string             `gorm:"column:name;not null"`
	Description       string             `gorm:"column:description;not null;default:''"`
	Kind              enums.DiscountKind `gorm:"column:kind;not null"`
	Value             decimal.Decimal    `gorm:"column:value;type:numeric(12,4);not null;default:0"`
	MinOrderAmount    int64              `gorm:"column:min_order_amount;not null;default:0"`
	MaxDiscountAmount *int64             `gorm:"column:max_discount_amount"`
	Stackable         bool               `gorm:"column:stackable;not null;default:false"`
	StackableWith     dbtypes.UUIDArray  `gorm:"column:stackable_with;type:text"`
	FirstOrderOnly    bool               `gorm:"column:first_order_only;not null;default:false"`
	IsActive          bool               `gorm:"column:is_active;not null"`
	StartsAt          *time.Time         `gorm:"column:starts_at"`
	EndsAt            *time.Time         `gorm:"column:ends_at"`
	Position          int                `gorm:"column:position;not null;default:0"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Discount) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
