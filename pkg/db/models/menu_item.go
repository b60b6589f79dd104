package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItem is a live catalog entry. Stock is nil when the kitchen does not track it.
type MenuItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID         `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string            `gorm:"column:name;not null"`
	Description  string            `gorm:"column:description;not null;default:''"`
	Price        int64             `gorm:"column:price;not null"`
	ImageURL     string            `gorm:"column:image_url;not null;default:''"`
	IsAvailable  bool              `gorm:"column:is_available;not null"`
	Stock        *int              `gorm:"column:stock"`
	Position     int               `gorm:"column:position;not null;default:0"`
	OptionGroups []MenuOptionGroup `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// MenuOptionGroup groups choices such as "Size" or "Extra toppings".
type MenuOptionGroup struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	MenuItemID uuid.UUID    `gorm:"column:menu_item_id;type:uuid;not null;index"`
	Name       string       `gorm:"column:name;not null"`
	Required   bool         `gorm:"column:required;not null;default:false"`
	MinSelect  int          `gorm:"column:min_select;not null;default:0"`
	MaxSelect  int          `gorm:"column:max_select;not null;default:1"`
	Position   int          `gorm:"column:position;not null;default:0"`
	Options    []MenuOption `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (g *MenuOptionGroup) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// MenuOption is a single selectable choice within a group.
type MenuOption struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	GroupID         uuid.UUID `gorm:"column:group_id;type:uuid;not null;index"`
	Name            string    `gorm:"column:name;not null"`
	AdditionalPrice int64     `gorm:"column:additional_price;not null;default:0"`
	IsAvailable     bool      `gorm:"column:is_available;not null"`
	Stock           *int      `gorm:"column:stock"`
	Position        int       `gorm:"column:position;not null;default:0"`
}

func (o *MenuOption) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
