package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/pkg/types"
)

// Restaurant carries the delivery context the pricing engine reads.
// Nil fee and radius columns fall back to platform pricing defaults.
type Restaurant struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Lat             float64   `gorm:"column:lat;not null"`
	Lng             float64   `gorm:"column:lng;not null"`
	IsOpen          bool      `gorm:"column:is_open;not null"`
	MinOrderAmount  int64     `gorm:"column:min_order_amount;not null;default:0"`
	BaseDeliveryFee *int64    `gorm:"column:base_delivery_fee"`
	FreeDeliveryMin *int64    `gorm:"column:free_delivery_min"`
	ServiceRadiusKm *float64  `gorm:"column:service_radius_km"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// Location returns the restaurant's coordinates.
func (r Restaurant) Location() types.GeoPoint {
	return types.GeoPoint{Lat: r.Lat, Lng: r.Lng}
}
