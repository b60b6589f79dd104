// Package validation reconciles cart lines with the live menu.
package validation

import (
	"fmt"
	"strings"

	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/internal/menu"
	"github.com/user941211/delivery-sub004/pkg/enums"
	"github.com/user941211/delivery-sub004/pkg/types"
)

// ValidatedCart is the cart annotated with per-line status. UsableItems are the lines that count towards pricing.
type ValidatedCart struct {
	Cart        domain.Cart
	UsableItems []domain.Item
}

// Counts tallies lines per status.
func (v ValidatedCart) Counts() map[enums.CartItemStatus]int {
	counts := make(map[enums.CartItemStatus]int, 3)
	for _, item := range v.Cart.Items {
		counts[item.Status]++
	}
	return counts
}

// Engine validates carts. It never mutates its inputs.
type Engine struct{}

// NewEngine returns a validation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Validate returns a copy of cart with every line's status, message and live prices refreshed.
func (e *Engine) Validate(cart domain.Cart, snapshot *menu.Snapshot) ValidatedCart {
	out := cart.Clone()
	usable := make([]domain.Item, 0, len(out.Items))
	for idx := range out.Items {
		out.Items[idx] = ValidateItem(out.Items[idx], snapshot)
		if out.Items[idx].Priceable() {
			usable = append(usable, out.Items[idx].Clone())
		}
	}
	return ValidatedCart{Cart: out, UsableItems: usable}
}

type lineCheck struct {
	status  enums.CartItemStatus
	changes types.CartItemWarnings
}

func (c *lineCheck) flag(status enums.CartItemStatus, kind enums.CartItemWarningType, format string, args ...any) {
	c.status = c.status.Worse(status)
	c.changes = append(c.changes, types.CartItemWarning{Type: kind, Message: fmt.Sprintf(format, args...)})
}

// ValidateItem checks one line against the snapshot. An unavailable line stays unavailable.
func ValidateItem(item domain.Item, snapshot *menu.Snapshot) domain.Item {
	out := item.Clone()
	if out.Status == enums.CartItemStatusUnavailable {
		out.Recompute()
		return out
	}

	check := lineCheck{status: enums.CartItemStatusActive, changes: types.CartItemWarnings{}}
	live, ok := snapshot.Item(out.MenuItemID)
	switch {
	case !ok:
		check.flag(enums.CartItemStatusUnavailable, enums.CartItemWarningTypeItemRemoved, "%s is no longer on the menu", out.Name)
	case !live.Orderable():
		check.flag(enums.CartItemStatusUnavailable, enums.CartItemWarningTypeItemNotOrderable, "%s is currently unavailable", out.Name)
	default:
		if live.Name != out.Name {
			check.flag(enums.CartItemStatusModified, enums.CartItemWarningTypeNameChanged, "name changed from %q to %q", out.Name, live.Name)
		}
		if live.Price != out.BasePrice {
			check.flag(enums.CartItemStatusModified, enums.CartItemWarningTypePriceChanged, "price changed from %d to %d", out.BasePrice, live.Price)
		}
		optionsPrice := checkOptions(&check, out.SelectedOptions, live)
		price := live.Price
		out.LivePrice = &price
		out.LiveOptionsPrice = &optionsPrice
	}

	out.Status = check.status
	out.Changes = check.changes
	out.StatusMessage = summarize(check.changes)
	out.Recompute()
	return out
}

// checkOptions flags option drift and returns the live surcharge of the options that remain usable.
func checkOptions(check *lineCheck, selected types.SelectedOptions, live menu.Item) int64 {
	var total int64
	for _, sel := range selected {
		opt, group, found := live.Option(sel.OptionID)
		if found && group.ID != sel.GroupID {
			found = false
		}

		switch {
		case !found:
			optionProblem(check, sel, live, enums.CartItemWarningTypeOptionUnavailable, "%s is no longer offered")
		case !opt.IsAvailable:
			optionProblem(check, sel, live, enums.CartItemWarningTypeOptionUnavailable, "%s is unavailable")
		case !opt.InStock():
			optionProblem(check, sel, live, enums.CartItemWarningTypeOptionOutOfStock, "%s is out of stock")
		default:
			if opt.AdditionalPrice != sel.AdditionalPrice {
				check.flag(enums.CartItemStatusModified, enums.CartItemWarningTypeOptionPriceChanged,
					"%s price changed from %d to %d", sel.Name, sel.AdditionalPrice, opt.AdditionalPrice)
			}
			total += opt.AdditionalPrice
		}
	}
	return total
}

// optionProblem drops a removable option and marks the line modified, or marks the line
// unavailable when the option belongs to a required group (or its group is gone).
func optionProblem(check *lineCheck, sel types.SelectedOption, live menu.Item, kind enums.CartItemWarningType, format string) {
	group, ok := live.Group(sel.GroupID)
	if ok && !group.Required {
		check.flag(enums.CartItemStatusModified, kind, format+" and was removed from the price", sel.Name)
		return
	}
	if kind == enums.CartItemWarningTypeOptionUnavailable {
		kind = enums.CartItemWarningTypeRequiredOptionGone
	}
	check.flag(enums.CartItemStatusUnavailable, kind, format+"; choose another option", sel.Name)
}

func summarize(changes types.CartItemWarnings) string {
	if len(changes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(changes))
	for _, change := range changes {
		parts = append(parts, change.Message)
	}
	return strings.Join(parts, "; ")
}
