// Package delivery quotes the delivery fee for a cart.
package delivery

import (
	"fmt"
	"math"

	"github.com/user941211/delivery-sub004/pkg/types"
)

// Band adds Surcharge to deliveries up to UpToKm.
type Band struct {
	UpToKm    float64
	Surcharge int64
}

// Config carries the fee tiers and thresholds for one restaurant. Bands are ordered by UpToKm.
// A ServiceRadiusKm of zero or less means the restaurant delivers at any distance.
type Config struct {
	BaseFee         int64
	Bands           []Band
	FreeDeliveryMin int64
	ServiceRadiusKm float64
}

// Quote is the delivery fee offer for one pricing pass.
type Quote struct {
	IsAvailable           bool    `json:"is_available"`
	DistanceKm            float64 `json:"distance_km"`
	BaseFee               int64   `json:"base_fee"`
	AdditionalFee         int64   `json:"additional_fee"`
	TotalFee              int64   `json:"total_fee"`
	Waived                bool    `json:"waived"`
	FreeDeliveryMinAmount *int64  `json:"free_delivery_min_amount,omitempty"`
	UnavailableReason     string  `json:"unavailable_reason,omitempty"`
}

// Unavailable returns a copy of q that blocks delivery with reason.
func (q Quote) Unavailable(reason string) Quote {
	q.IsAvailable = false
	q.TotalFee = 0
	q.Waived = false
	q.UnavailableReason = reason
	return q
}

// Calculator quotes delivery fees. It holds no configuration of its own.
type Calculator struct{}

// NewCalculator returns a calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Quote prices delivery from origin to destination. A nil destination quotes the base
// fee without a distance surcharge, since the distance is not known yet.
func (c *Calculator) Quote(cfg Config, origin types.GeoPoint, destination *types.GeoPoint, subtotal int64, freeDeliveryApplied bool) Quote {
	quote := Quote{IsAvailable: true, BaseFee: cfg.BaseFee}
	if cfg.FreeDeliveryMin > 0 {
		threshold := cfg.FreeDeliveryMin
		quote.FreeDeliveryMinAmount = &threshold
	}

	if destination != nil {
		if err := destination.Validate(); err != nil {
			return quote.Unavailable(fmt.Sprintf("invalid delivery address: %v", err))
		}
		distance := origin.DistanceKm(*destination)
		quote.DistanceKm = math.Round(distance*1000) / 1000
		if cfg.ServiceRadiusKm > 0 && distance > cfg.ServiceRadiusKm {
			return quote.Unavailable(fmt.Sprintf("address is %.1f km away, beyond the %.1f km delivery radius", distance, cfg.ServiceRadiusKm))
		}
		quote.AdditionalFee = bandSurcharge(cfg.Bands, distance)
	}

	if freeDeliveryApplied || (cfg.FreeDeliveryMin > 0 && subtotal >= cfg.FreeDeliveryMin) {
		quote.Waived = true
		quote.TotalFee = 0
		return quote
	}
	quote.TotalFee = quote.BaseFee + quote.AdditionalFee
	return quote
}

// bandSurcharge returns the surcharge of the first band covering distance, or the last band's beyond it.
func bandSurcharge(bands []Band, distance float64) int64 {
	if len(bands) == 0 {
		return 0
	}
	for _, band := range bands {
		if band.UpToKm >= distance {
			return band.Surcharge
		}
	}
	return bands[len(bands)-1].Surcharge
}
