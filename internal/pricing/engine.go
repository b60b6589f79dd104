// Package pricing composes validated lines, discounts and a delivery quote into a price breakdown.
package pricing

import (
	"github.com/user941211/delivery-sub004/internal/delivery"
	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/internal/validation"
	"github.com/user941211/delivery-sub004/pkg/enums"
)

// Config carries the per-restaurant checkout thresholds.
type Config struct {
	MinOrderAmount int64
}

// Breakdown is the priced view of a cart.
type Breakdown struct {
	Subtotal              int64                   `json:"subtotal"`
	DeliveryFee           int64                   `json:"delivery_fee"`
	DiscountAmount        int64                   `json:"discount_amount"`
	TotalAmount           int64                   `json:"total_amount"`
	Discounts             []discounts.Application `json:"discounts"`
	AmountForFreeDelivery *int64                  `json:"amount_for_free_delivery,omitempty"`
}

// Result is the breakdown plus the checkout decision.
type Result struct {
	Breakdown        Breakdown
	CanOrder         bool
	OrderBlockReason *enums.OrderBlockReason
}

// Subtotal sums the totals of lines that are not unavailable.
func Subtotal(items []domain.Item) int64 {
	var subtotal int64
	for _, item := range items {
		if item.Priceable() {
			subtotal += item.TotalPrice
		}
	}
	return subtotal
}

// Engine prices validated carts.
type Engine struct{}

// NewEngine returns a pricing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Price builds the breakdown and decides whether the cart can proceed to checkout.
func (e *Engine) Price(validated validation.ValidatedCart, apps []discounts.Application, quote delivery.Quote, cfg Config) Result {
	subtotal := Subtotal(validated.UsableItems)

	discountAmount := min(discounts.TotalAmount(apps), subtotal)
	if discountAmount < 0 {
		discountAmount = 0
	}

	applied := make([]discounts.Application, len(apps))
	copy(applied, apps)

	breakdown := Breakdown{
		Subtotal:       subtotal,
		DeliveryFee:    quote.TotalFee,
		DiscountAmount: discountAmount,
		TotalAmount:    max(0, subtotal+quote.TotalFee-discountAmount),
		Discounts:      applied,
	}

	freeDeliveryApplied := discounts.HasFreeDelivery(apps)
	if quote.IsAvailable && !freeDeliveryApplied && quote.FreeDeliveryMinAmount != nil && subtotal < *quote.FreeDeliveryMinAmount {
		gap := *quote.FreeDeliveryMinAmount - subtotal
		breakdown.AmountForFreeDelivery = &gap
	}

	result := Result{Breakdown: breakdown, CanOrder: true}
	if reason, blocked := blockReason(len(validated.UsableItems), subtotal, cfg.MinOrderAmount, quote.IsAvailable); blocked {
		result.CanOrder = false
		result.OrderBlockReason = &reason
	}
	return result
}

// blockReason reports the first failing checkout condition.
func blockReason(usable int, subtotal, minOrder int64, deliveryAvailable bool) (enums.OrderBlockReason, bool) {
	switch {
	case usable == 0:
		return enums.OrderBlockReasonEmptyCart, true
	case subtotal < minOrder:
		return enums.OrderBlockReasonBelowMinimum, true
	case !deliveryAvailable:
		return enums.OrderBlockReasonDeliveryUnavailable, true
	default:
		return "", false
	}
}
