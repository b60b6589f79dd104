package enums

import "fmt"

// DiscountKind describes how a discount rule reduces the order.
type DiscountKind string

const (
	DiscountKindPercentage   DiscountKind = "percentage"
	DiscountKindFixed        DiscountKind = "fixed"
	DiscountKindFreeDelivery DiscountKind = "free_delivery"
)

var validDiscountKinds = []DiscountKind{
	DiscountKindPercentage,
	DiscountKindFixed,
	DiscountKindFreeDelivery,
}

// String implements fmt.Stringer.
func (d DiscountKind) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DiscountKind) IsValid() bool {
	for _, candidate := range validDiscountKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ReducesAmount reports whether the kind subtracts from the subtotal rather than waiving delivery.
func (d DiscountKind) ReducesAmount() bool {
	return d == DiscountKindPercentage || d == DiscountKindFixed
}

// ParseDiscountKind converts raw input into a DiscountKind.
func ParseDiscountKind(value string) (DiscountKind, error) {
	for _, candidate := range validDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount kind %q", value)
}
