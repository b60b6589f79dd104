package cart

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartdto "github.com/user941211/delivery-sub004/api/controllers/cart/dto"
	"github.com/user941211/delivery-sub004/api/middleware"
	"github.com/user941211/delivery-sub004/api/validators"
	cartsvc "github.com/user941211/delivery-sub004/internal/cart"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
	"github.com/user941211/delivery-sub004/pkg/types"
)

const maxPlaceIDLength = 512

func customerIDFromContext(r *http.Request) (uuid.UUID, error) {
	if r == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
	}
	return customerID, nil
}

func itemIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	itemID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return itemID, nil
}

// destinationFromQuery reads lat/lng/place_id from the query string.
func destinationFromQuery(r *http.Request) (cartsvc.Destination, error) {
	lat, err := validators.ParseQueryFloat(r, "lat", -90, 90)
	if err != nil {
		return cartsvc.Destination{}, err
	}
	lng, err := validators.ParseQueryFloat(r, "lng", -180, 180)
	if err != nil {
		return cartsvc.Destination{}, err
	}
	return toDestination(&cartdto.DestinationRequest{
		Lat:     lat,
		Lng:     lng,
		PlaceID: validators.SanitizeString(r.URL.Query().Get("place_id"), maxPlaceIDLength),
	})
}

func toDestination(payload *cartdto.DestinationRequest) (cartsvc.Destination, error) {
	if payload == nil {
		return cartsvc.Destination{}, nil
	}
	if (payload.Lat == nil) != (payload.Lng == nil) {
		return cartsvc.Destination{}, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be provided together")
	}
	dest := cartsvc.Destination{PlaceID: strings.TrimSpace(payload.PlaceID)}
	if payload.Lat != nil {
		dest.Point = &types.GeoPoint{Lat: *payload.Lat, Lng: *payload.Lng}
	}
	return dest, nil
}

func toAddItemInput(payload cartdto.AddItemRequest) (cartsvc.AddItemInput, error) {
	dest, err := toDestination(payload.Destination)
	if err != nil {
		return cartsvc.AddItemInput{}, err
	}
	return cartsvc.AddItemInput{
		RestaurantID:        payload.RestaurantID,
		MenuItemID:          payload.MenuItemID,
		Quantity:            payload.Quantity,
		OptionIDs:           payload.OptionIDs,
		SpecialInstructions: payload.SpecialInstructions,
		Destination:         dest,
	}, nil
}

func toUpdateItemInput(payload cartdto.UpdateItemRequest) (cartsvc.UpdateItemInput, error) {
	dest, err := toDestination(payload.Destination)
	if err != nil {
		return cartsvc.UpdateItemInput{}, err
	}
	if payload.Quantity == nil && payload.OptionIDs == nil && payload.SpecialInstructions == nil {
		return cartsvc.UpdateItemInput{}, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	return cartsvc.UpdateItemInput{
		Quantity:            payload.Quantity,
		OptionIDs:           payload.OptionIDs,
		SpecialInstructions: payload.SpecialInstructions,
		Destination:         dest,
	}, nil
}

func toReorderInput(payload cartdto.ReorderRequest) (cartsvc.ReorderInput, error) {
	dest, err := toDestination(payload.Destination)
	if err != nil {
		return cartsvc.ReorderInput{}, err
	}
	return cartsvc.ReorderInput{OrderID: payload.OrderID, Destination: dest}, nil
}
