package enums

import "fmt"

// CartItemWarningType enumerates the structured changes recorded on a cart line.
type CartItemWarningType string

const (
	CartItemWarningTypeItemRemoved        CartItemWarningType = "item_removed"
	CartItemWarningTypeItemNotOrderable   CartItemWarningType = "item_not_orderable"
	CartItemWarningTypeNameChanged        CartItemWarningType = "name_changed"
	CartItemWarningTypePriceChanged       CartItemWarningType = "price_changed"
	CartItemWarningTypeOptionPriceChanged CartItemWarningType = "option_price_changed"
	CartItemWarningTypeOptionUnavailable  CartItemWarningType = "option_unavailable"
	CartItemWarningTypeRequiredOptionGone CartItemWarningType = "required_option_unavailable"
	CartItemWarningTypeOptionOutOfStock   CartItemWarningType = "option_out_of_stock"
	CartItemWarningTypeQuantityClamped    CartItemWarningType = "quantity_clamped"
)

var validCartItemWarningTypes = []CartItemWarningType{
	CartItemWarningTypeItemRemoved,
	CartItemWarningTypeItemNotOrderable,
	CartItemWarningTypeNameChanged,
	CartItemWarningTypePriceChanged,
	CartItemWarningTypeOptionPriceChanged,
	CartItemWarningTypeOptionUnavailable,
	CartItemWarningTypeRequiredOptionGone,
	CartItemWarningTypeOptionOutOfStock,
	CartItemWarningTypeQuantityClamped,
}

// String implements fmt.Stringer.
func (c CartItemWarningType) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CartItemWarningType) IsValid() bool {
	for _, candidate := range validCartItemWarningTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartItemWarningType converts raw input into a CartItemWarningType.
func ParseCartItemWarningType(value string) (CartItemWarningType, error) {
	for _, candidate := range validCartItemWarningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart item warning type %q", value)
}
