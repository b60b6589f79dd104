package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/internal/menu"
	"github.com/user941211/delivery-sub004/pkg/enums"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
	"github.com/user941211/delivery-sub004/pkg/types"
)

func checkQuantity(quantity int) error {
	if quantity < domain.MinItemQuantity || quantity > domain.MaxItemQuantity {
		return pkgerrors.InvalidQuantity(quantity, domain.MinItemQuantity, domain.MaxItemQuantity)
	}
	return nil
}

// selectOptions resolves option ids against the live entry and enforces group limits.
func selectOptions(live menu.Item, optionIDs []uuid.UUID) (types.SelectedOptions, error) {
	selected := make(types.SelectedOptions, 0, len(optionIDs))
	perGroup := make(map[uuid.UUID]int, len(live.Groups))
	seen := make(map[uuid.UUID]struct{}, len(optionIDs))

	for _, id := range optionIDs {
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.InvalidOptionSelection(fmt.Sprintf("option %s selected more than once", id))
		}
		seen[id] = struct{}{}

		opt, group, ok := live.Option(id)
		if !ok {
			return nil, pkgerrors.InvalidOptionSelection(fmt.Sprintf("option %s is not offered for %s", id, live.Name))
		}
		if !opt.InStock() {
			return nil, pkgerrors.InvalidOptionSelection(fmt.Sprintf("%s is unavailable", opt.Name))
		}
		perGroup[group.ID]++
		selected = append(selected, types.SelectedOption{
			OptionID:        opt.ID,
			GroupID:         group.ID,
			Name:            opt.Name,
			AdditionalPrice: opt.AdditionalPrice,
		})
	}

	for _, group := range live.Groups {
		count := perGroup[group.ID]
		if minimum := group.MinSelections(); count < minimum {
			return nil, pkgerrors.InvalidOptionSelection(fmt.Sprintf("%s requires at least %d selection(s)", group.Name, minimum))
		}
		if group.MaxSelect > 0 && count > group.MaxSelect {
			return nil, pkgerrors.InvalidOptionSelection(fmt.Sprintf("%s allows at most %d selection(s)", group.Name, group.MaxSelect))
		}
	}
	return selected, nil
}

// captureLine builds a fresh line from the live entry at its current prices.
func captureLine(restaurantID uuid.UUID, live menu.Item, options types.SelectedOptions, quantity int, instructions string) domain.Item {
	item := domain.Item{
		ID:                  uuid.New(),
		MenuItemID:          live.ID,
		RestaurantID:        restaurantID,
		Name:                live.Name,
		Description:         live.Description,
		BasePrice:           live.Price,
		ImageURL:            live.ImageURL,
		Quantity:            quantity,
		SelectedOptions:     options,
		SpecialInstructions: instructions,
		Status:              enums.CartItemStatusActive,
		Changes:             types.CartItemWarnings{},
	}
	item.Recompute()
	return item
}

// mergeTarget returns the index of a line the new selection can be folded into, or -1.
func mergeTarget(items []domain.Item, menuItemID uuid.UUID, options types.SelectedOptions, instructions string) int {
	for idx, item := range items {
		if item.Status == enums.CartItemStatusUnavailable {
			continue
		}
		if item.MenuItemID == menuItemID && item.SpecialInstructions == instructions && item.SelectedOptions.SameChoice(options) {
			return idx
		}
	}
	return -1
}

func optionIDs(options types.SelectedOptions) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(options))
	for _, opt := range options {
		ids = append(ids, opt.OptionID)
	}
	return ids
}
