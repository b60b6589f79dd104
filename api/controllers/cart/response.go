package cart

import (
	cartdto "github.com/user941211/delivery-sub004/api/controllers/cart/dto"
	cartsvc "github.com/user941211/delivery-sub004/internal/cart"
	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/pkg/enums"
	"github.com/user941211/delivery-sub004/pkg/types"
)

func newCartSnapshot(snap *cartsvc.Snapshot) cartdto.CartSnapshot {
	items := make([]cartdto.CartItem, 0, len(snap.Cart.Items))
	for _, item := range snap.Cart.Items {
		changes := item.Changes
		if changes == nil {
			changes = types.CartItemWarnings{}
		}
		options := item.SelectedOptions
		if options == nil {
			options = types.SelectedOptions{}
		}
		items = append(items, cartdto.CartItem{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			Name:                item.Name,
			Description:         item.Description,
			ImageURL:            item.ImageURL,
			Quantity:            item.Quantity,
			BasePrice:           item.BasePrice,
			OptionsPrice:        item.OptionsPrice,
			LivePrice:           item.LivePrice,
			LiveOptionsPrice:    item.LiveOptionsPrice,
			TotalPrice:          item.TotalPrice,
			SelectedOptions:     options,
			SpecialInstructions: item.SpecialInstructions,
			Status:              item.Status,
			StatusMessage:       item.StatusMessage,
			Changes:             changes,
		})
	}

	counts := snap.StatusCounts()
	applied := snap.Breakdown.Discounts
	if applied == nil {
		applied = []discounts.Application{}
	}

	return cartdto.CartSnapshot{
		ID:           snap.Cart.ID,
		CustomerID:   snap.Cart.CustomerID,
		RestaurantID: snap.Cart.RestaurantID,
		Version:      snap.Cart.Version,
		Items:        items,
		Summary: cartdto.ItemSummary{
			Active:      counts[enums.CartItemStatusActive],
			Modified:    counts[enums.CartItemStatusModified],
			Unavailable: counts[enums.CartItemStatusUnavailable],
		},
		Pricing: cartdto.Pricing{
			Subtotal:              snap.Breakdown.Subtotal,
			DeliveryFee:           snap.Breakdown.DeliveryFee,
			DiscountAmount:        snap.Breakdown.DiscountAmount,
			TotalAmount:           snap.Breakdown.TotalAmount,
			Discounts:             applied,
			AmountForFreeDelivery: snap.Breakdown.AmountForFreeDelivery,
		},
		Delivery:         snap.Delivery,
		CanOrder:         snap.CanOrder,
		OrderBlockReason: snap.OrderBlockReason,
		UpdatedAt:        snap.Cart.UpdatedAt,
	}
}

func newReorderResponse(result *cartsvc.ReorderResult) cartdto.ReorderResponse {
	skipped := make([]cartdto.ReorderSkip, 0, len(result.Skipped))
	for _, skip := range result.Skipped {
		skipped = append(skipped, cartdto.ReorderSkip{
			MenuItemID: skip.MenuItemID,
			Name:       skip.Name,
			Reason:     skip.Reason,
		})
	}
	adjusted := make([]cartdto.ReorderAdjusted, 0, len(result.Adjusted))
	for _, adj := range result.Adjusted {
		adjusted = append(adjusted, cartdto.ReorderAdjusted{
			MenuItemID:        adj.MenuItemID,
			Name:              adj.Name,
			RequestedQuantity: adj.RequestedQuantity,
			Quantity:          adj.Quantity,
			Warning:           adj.Warning.Type,
			Message:           adj.Warning.Message,
		})
	}
	return cartdto.ReorderResponse{
		Cart:     newCartSnapshot(result.Snapshot),
		Skipped:  skipped,
		Adjusted: adjusted,
	}
}
