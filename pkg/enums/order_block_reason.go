package enums

import "fmt"

// OrderBlockReason explains why a cart cannot proceed to checkout.
type OrderBlockReason string

const (
	OrderBlockReasonEmptyCart           OrderBlockReason = "empty_cart"
	OrderBlockReasonBelowMinimum        OrderBlockReason = "below_minimum"
	OrderBlockReasonDeliveryUnavailable OrderBlockReason = "delivery_unavailable"
)

// validOrderBlockReasons is listed in reporting priority.
var validOrderBlockReasons = []OrderBlockReason{
	OrderBlockReasonEmptyCart,
	OrderBlockReasonBelowMinimum,
	OrderBlockReasonDeliveryUnavailable,
}

// String implements fmt.Stringer.
func (o OrderBlockReason) String() string {
	return string(o)
}

// IsValid reports whether the value is known.
func (o OrderBlockReason) IsValid() bool {
	for _, candidate := range validOrderBlockReasons {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderBlockReason converts raw input into an OrderBlockReason.
func ParseOrderBlockReason(value string) (OrderBlockReason, error) {
	for _, candidate := range validOrderBlockReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order block reason %q", value)
}
