package enums

import "fmt"

// CartItemStatus tracks the validation state of a cart line against the live menu.
type CartItemStatus string

const (
	CartItemStatusActive      CartItemStatus = "active"
	CartItemStatusModified    CartItemStatus = "modified"
	CartItemStatusUnavailable CartItemStatus = "unavailable"
)

var validCartItemStatuses = []CartItemStatus{
	CartItemStatusActive,
	CartItemStatusModified,
	CartItemStatusUnavailable,
}

// String implements fmt.Stringer.
func (c CartItemStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CartItemStatus) IsValid() bool {
	for _, candidate := range validCartItemStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// Severity orders statuses so that unavailable dominates modified dominates active.
func (c CartItemStatus) Severity() int {
	switch c {
	case CartItemStatusUnavailable:
		return 2
	case CartItemStatusModified:
		return 1
	default:
		return 0
	}
}

// Worse returns whichever of c and other dominates.
func (c CartItemStatus) Worse(other CartItemStatus) CartItemStatus {
	if other.Severity() > c.Severity() {
		return other
	}
	if c == "" {
		return CartItemStatusActive
	}
	return c
}

// Priceable reports whether a line with this status contributes to the subtotal.
func (c CartItemStatus) Priceable() bool {
	return c != CartItemStatusUnavailable
}

// ParseCartItemStatus converts raw input into a CartItemStatus.
func ParseCartItemStatus(value string) (CartItemStatus, error) {
	for _, candidate := range validCartItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart item status %q", value)
}
