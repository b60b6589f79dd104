package cartdto

import "github.com/google/uuid"

// DestinationRequest locates the delivery address. Coordinates win over place_id.
type DestinationRequest struct {
	Lat     *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng     *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
	PlaceID string   `json:"place_id" validate:"omitempty,max=512"`
}

// AddItemRequest adds a menu item to the customer's cart.
type AddItemRequest struct {
	RestaurantID        uuid.UUID           `json:"restaurant_id" validate:"required"`
	MenuItemID          uuid.UUID           `json:"menu_item_id" validate:"required"`
	Quantity            int                 `json:"quantity"`
	OptionIDs           []uuid.UUID         `json:"option_ids"`
	SpecialInstructions string              `json:"special_instructions"`
	Destination         *DestinationRequest `json:"destination"`
}

// UpdateItemRequest patches a cart line; omitted fields keep their value.
type UpdateItemRequest struct {
	Quantity            *int                `json:"quantity"`
	OptionIDs           *[]uuid.UUID        `json:"option_ids"`
	SpecialInstructions *string             `json:"special_instructions"`
	Destination         *DestinationRequest `json:"destination"`
}

// ReorderRequest copies a past order into the cart.
type ReorderRequest struct {
	OrderID     uuid.UUID           `json:"order_id" validate:"required"`
	Destination *DestinationRequest `json:"destination"`
}
