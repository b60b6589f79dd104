// Package domain holds the cart aggregate shared by the validation, pricing and cart packages.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/pkg/enums"
	"github.com/user941211/delivery-sub004/pkg/types"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

// Cart is a customer's in-progress selection for one restaurant. Items keep insertion order.
type Cart struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Items        []Item    `json:"items"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Item is a cart line. Name, Description, BasePrice and ImageURL are captured when the
// line is added; LivePrice and LiveOptionsPrice hold the last prices observed on the menu.
type Item struct {
	ID                  uuid.UUID              `json:"id"`
	MenuItemID          uuid.UUID              `json:"menu_item_id"`
	RestaurantID        uuid.UUID              `json:"restaurant_id"`
	Name                string                 `json:"name"`
	Description         string                 `json:"description"`
	BasePrice           int64                  `json:"base_price"`
	ImageURL            string                 `json:"image_url"`
	Quantity            int                    `json:"quantity"`
	SelectedOptions     types.SelectedOptions  `json:"selected_options"`
	SpecialInstructions string                 `json:"special_instructions"`
	Status              enums.CartItemStatus   `json:"status"`
	StatusMessage       string                 `json:"status_message,omitempty"`
	Changes             types.CartItemWarnings `json:"changes"`
	LivePrice           *int64                 `json:"live_price,omitempty"`
	LiveOptionsPrice    *int64                 `json:"live_options_price,omitempty"`
	OptionsPrice        int64                  `json:"options_price"`
	TotalPrice          int64                  `json:"total_price"`
}

// UnitPrice returns the live base price when known, otherwise the captured one.
func (i Item) UnitPrice() int64 {
	if i.LivePrice != nil {
		return *i.LivePrice
	}
	return i.BasePrice
}

// EffectiveOptionsPrice returns the live option surcharge when known, otherwise the captured sum.
func (i Item) EffectiveOptionsPrice() int64 {
	if i.LiveOptionsPrice != nil {
		return *i.LiveOptionsPrice
	}
	return i.SelectedOptions.Total()
}

// Recompute refreshes the derived price fields. TotalPrice is never read from storage.
func (i *Item) Recompute() {
	i.OptionsPrice = i.EffectiveOptionsPrice()
	i.TotalPrice = (i.UnitPrice() + i.OptionsPrice) * int64(i.Quantity)
}

// Priceable reports whether the line counts towards the subtotal.
func (i Item) Priceable() bool {
	return i.Status.Priceable()
}

// Clone returns a deep copy so callers can annotate lines without aliasing the input.
func (i Item) Clone() Item {
	out := i
	out.SelectedOptions = i.SelectedOptions.Clone()
	if i.Changes != nil {
		out.Changes = append(types.CartItemWarnings(nil), i.Changes...)
	}
	if i.LivePrice != nil {
		v := *i.LivePrice
		out.LivePrice = &v
	}
	if i.LiveOptionsPrice != nil {
		v := *i.LiveOptionsPrice
		out.LiveOptionsPrice = &v
	}
	return out
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]Item, len(c.Items))
	for idx, item := range c.Items {
		out.Items[idx] = item.Clone()
	}
	return out
}

// FindItem returns the index of the line with the given id, or -1.
func (c Cart) FindItem(id uuid.UUID) int {
	for idx, item := range c.Items {
		if item.ID == id {
			return idx
		}
	}
	return -1
}

// ForeignItems returns the lines that reference a restaurant other than the cart's.
func (c Cart) ForeignItems() []Item {
	var out []Item
	for _, item := range c.Items {
		if item.RestaurantID != uuid.Nil && item.RestaurantID != c.RestaurantID {
			out = append(out, item)
		}
	}
	return out
}

// ChangedSince reports whether any line's validation fields differ from other.
func (c Cart) ChangedSince(other Cart) bool {
	if len(c.Items) != len(other.Items) {
		return true
	}
	for idx := range c.Items {
		a, b := c.Items[idx], other.Items[idx]
		if a.ID != b.ID || a.Status != b.Status || a.StatusMessage != b.StatusMessage {
			return true
		}
		if !equalInt64Ptr(a.LivePrice, b.LivePrice) || !equalInt64Ptr(a.LiveOptionsPrice, b.LiveOptionsPrice) {
			return true
		}
		if len(a.Changes) != len(b.Changes) {
			return true
		}
		for j := range a.Changes {
			if a.Changes[j] != b.Changes[j] {
				return true
			}
		}
	}
	return false
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
