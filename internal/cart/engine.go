// Package cart owns the cart aggregate: revalidation, pricing and the customer-facing operations.
package cart

import (
	"fmt"

	"github.com/user941211/delivery-sub004/internal/delivery"
	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/internal/menu"
	"github.com/user941211/delivery-sub004/internal/pricing"
	"github.com/user941211/delivery-sub004/internal/validation"
	"github.com/user941211/delivery-sub004/pkg/enums"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
	"github.com/user941211/delivery-sub004/pkg/types"
)

// Inputs is the pre-fetched collaborator state a revalidation runs against.
type Inputs struct {
	Menu            *menu.Snapshot
	Catalog         []discounts.Rule
	DiscountContext discounts.Context
	Delivery        delivery.Config
	Origin          types.GeoPoint
	Destination     *types.GeoPoint
	RestaurantOpen  bool
	Pricing         pricing.Config
}

// Snapshot is the priced, validated view of a cart returned to callers.
type Snapshot struct {
	Cart             domain.Cart             `json:"cart"`
	Breakdown        pricing.Breakdown       `json:"breakdown"`
	Delivery         delivery.Quote          `json:"delivery"`
	CanOrder         bool                    `json:"can_order"`
	OrderBlockReason *enums.OrderBlockReason `json:"order_block_reason,omitempty"`
}

// StatusCounts tallies lines per status.
func (s *Snapshot) StatusCounts() map[enums.CartItemStatus]int {
	counts := make(map[enums.CartItemStatus]int, 3)
	for _, item := range s.Cart.Items {
		counts[item.Status]++
	}
	return counts
}

// Engine composes validation, discount resolution, delivery quoting and pricing.
// It performs no I/O and never mutates its inputs.
type Engine struct {
	validator  *validation.Engine
	resolver   *discounts.Resolver
	calculator *delivery.Calculator
	pricer     *pricing.Engine
}

// NewEngine returns an engine with its default stages.
func NewEngine() *Engine {
	return &Engine{
		validator:  validation.NewEngine(),
		resolver:   discounts.NewResolver(),
		calculator: delivery.NewCalculator(),
		pricer:     pricing.NewEngine(),
	}
}

// RevalidateAndPrice returns a complete snapshot for c, or an error and no snapshot.
func (e *Engine) RevalidateAndPrice(c domain.Cart, in Inputs) (*Snapshot, error) {
	if foreign := c.ForeignItems(); len(foreign) > 0 {
		return nil, pkgerrors.InconsistentCart(fmt.Sprintf("cart %s holds %d item(s) from another restaurant", c.ID, len(foreign))).
			WithDetails(map[string]any{"cart_id": c.ID.String(), "foreign_items": len(foreign)})
	}
	if in.Menu == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "menu snapshot missing")
	}
	if in.Menu.RestaurantID != c.RestaurantID {
		return nil, pkgerrors.InconsistentCart(fmt.Sprintf("menu snapshot for %s does not match cart restaurant %s", in.Menu.RestaurantID, c.RestaurantID))
	}

	validated := e.validator.Validate(c, in.Menu)
	subtotal := pricing.Subtotal(validated.UsableItems)
	apps := e.resolver.Resolve(subtotal, validated.UsableItems, in.Catalog, in.DiscountContext)

	quote := e.calculator.Quote(in.Delivery, in.Origin, in.Destination, subtotal, discounts.HasFreeDelivery(apps))
	if !in.RestaurantOpen {
		quote = quote.Unavailable("restaurant is closed")
	}

	result := e.pricer.Price(validated, apps, quote, in.Pricing)
	return &Snapshot{
		Cart:             validated.Cart,
		Breakdown:        result.Breakdown,
		Delivery:         quote,
		CanOrder:         result.CanOrder,
		OrderBlockReason: result.OrderBlockReason,
	}, nil
}
