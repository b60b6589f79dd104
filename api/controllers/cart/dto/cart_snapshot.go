package cartdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/internal/delivery"
	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/pkg/enums"
	"github.com/user941211/delivery-sub004/pkg/types"
)

// CartSnapshot is the revalidated cart returned by every cart endpoint.
type CartSnapshot struct {
	ID               uuid.UUID               `json:"id"`
	CustomerID       uuid.UUID               `json:"customer_id"`
	RestaurantID     uuid.UUID               `json:"restaurant_id"`
	Version          int64                   `json:"version"`
	Items            []CartItem              `json:"items"`
	Summary          ItemSummary             `json:"summary"`
	Pricing          Pricing                 `json:"pricing"`
	Delivery         delivery.Quote          `json:"delivery"`
	CanOrder         bool                    `json:"can_order"`
	OrderBlockReason *enums.OrderBlockReason `json:"order_block_reason,omitempty"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// CartItem shows the captured line next to what the menu says now.
type CartItem struct {
	ID                  uuid.UUID              `json:"id"`
	MenuItemID          uuid.UUID              `json:"menu_item_id"`
	Name                string                 `json:"name"`
	Description         string                 `json:"description,omitempty"`
	ImageURL            string                 `json:"image_url,omitempty"`
	Quantity            int                    `json:"quantity"`
	BasePrice           int64                  `json:"base_price"`
	OptionsPrice        int64                  `json:"options_price"`
	LivePrice           *int64                 `json:"live_price,omitempty"`
	LiveOptionsPrice    *int64                 `json:"live_options_price,omitempty"`
	TotalPrice          int64                  `json:"total_price"`
	SelectedOptions     types.SelectedOptions  `json:"selected_options"`
	SpecialInstructions string                 `json:"special_instructions,omitempty"`
	Status              enums.CartItemStatus   `json:"status"`
	StatusMessage       string                 `json:"status_message,omitempty"`
	Changes             types.CartItemWarnings `json:"changes"`
}

// ItemSummary counts lines per status.
type ItemSummary struct {
	Active      int `json:"active"`
	Modified    int `json:"modified"`
	Unavailable int `json:"unavailable"`
}

// Pricing mirrors the priced breakdown.
type Pricing struct {
	Subtotal              int64                   `json:"subtotal"`
	DeliveryFee           int64                   `json:"delivery_fee"`
	DiscountAmount        int64                   `json:"discount_amount"`
	TotalAmount           int64                   `json:"total_amount"`
	Discounts             []discounts.Application `json:"discounts"`
	AmountForFreeDelivery *int64                  `json:"amount_for_free_delivery,omitempty"`
}

// ReorderResponse adds the lines that could not be copied as they were.
type ReorderResponse struct {
	Cart     CartSnapshot      `json:"cart"`
	Skipped  []ReorderSkip     `json:"skipped"`
	Adjusted []ReorderAdjusted `json:"adjusted"`
}

type ReorderSkip struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Reason     string    `json:"reason"`
}

type ReorderAdjusted struct {
	MenuItemID        uuid.UUID                 `json:"menu_item_id"`
	Name              string                    `json:"name"`
	RequestedQuantity int                       `json:"requested_quantity"`
	Quantity          int                       `json:"quantity"`
	Warning           enums.CartItemWarningType `json:"warning"`
	Message           string                    `json:"message,omitempty"`
}
