// Package discounts resolves which catalog promotions apply to a cart and how much each one takes off.
package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/user941211/delivery-sub004/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// Context is the customer/restaurant/time state a rule's eligibility is evaluated against.
type Context struct {
	CartID       uuid.UUID
	CustomerID   uuid.UUID
	RestaurantID uuid.UUID
	Now          time.Time
	FirstOrder   bool
}

// Rule is one entry of the discount catalog.
type Rule struct {
	ID                uuid.UUID
	Name              string
	Description       string
	Kind              enums.DiscountKind
	Value             decimal.Decimal
	MinOrderAmount    int64
	MaxDiscountAmount *int64
	Stackable         bool
	StackableWith     []uuid.UUID
	RestaurantID      *uuid.UUID
	FirstOrderOnly    bool
	StartsAt          *time.Time
	EndsAt            *time.Time
}

// Eligible reports whether the rule may apply in ctx. Minimum order is checked by the resolver.
func (r Rule) Eligible(ctx Context) bool {
	if !r.Kind.IsValid() {
		return false
	}
	if r.RestaurantID != nil && *r.RestaurantID != ctx.RestaurantID {
		return false
	}
	if r.FirstOrderOnly && !ctx.FirstOrder {
		return false
	}
	if r.StartsAt != nil && ctx.Now.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && !ctx.Now.Before(*r.EndsAt) {
		return false
	}
	return true
}

// RawAmount is the discount before caps. Percentages truncate to whole units.
func (r Rule) RawAmount(subtotal int64) int64 {
	switch r.Kind {
	case enums.DiscountKindPercentage:
		return decimal.NewFromInt(subtotal).Mul(r.Value).Div(hundred).IntPart()
	case enums.DiscountKindFixed:
		return r.Value.IntPart()
	default:
		return 0
	}
}

// CappedAmount applies MaxDiscountAmount to the raw amount.
func (r Rule) CappedAmount(subtotal int64) int64 {
	amount := r.RawAmount(subtotal)
	if amount < 0 {
		return 0
	}
	if r.MaxDiscountAmount != nil && amount > *r.MaxDiscountAmount {
		return *r.MaxDiscountAmount
	}
	return amount
}

func (r Rule) lists(id uuid.UUID) bool {
	for _, candidate := range r.StackableWith {
		if candidate == id {
			return true
		}
	}
	return false
}

// CompatibleWith reports whether r may be applied after other. Once a non-stackable
// rule is applied, only rules listing it in StackableWith may follow.
func (r Rule) CompatibleWith(other Rule) bool {
	if other.Stackable {
		return true
	}
	return r.lists(other.ID)
}

// Application is a rule applied to a pricing pass. It is recomputed on every call.
type Application struct {
	ID             uuid.UUID          `json:"id"`
	RuleID         uuid.UUID          `json:"rule_id"`
	Name           string             `json:"name"`
	Kind           enums.DiscountKind `json:"kind"`
	Value          decimal.Decimal    `json:"value"`
	DiscountAmount int64              `json:"discount_amount"`
	Description    string             `json:"description"`
}

// HasFreeDelivery reports whether any application waives the delivery fee.
func HasFreeDelivery(apps []Application) bool {
	for _, app := range apps {
		if app.Kind == enums.DiscountKindFreeDelivery {
			return true
		}
	}
	return false
}

// TotalAmount sums the applied amounts.
func TotalAmount(apps []Application) int64 {
	var total int64
	for _, app := range apps {
		total += app.DiscountAmount
	}
	return total
}
