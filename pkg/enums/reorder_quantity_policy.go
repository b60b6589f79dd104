package enums

import "fmt"

// ReorderQuantityPolicy decides how quick reorder treats quantities that exceed tracked stock.
type ReorderQuantityPolicy string

const (
	ReorderQuantityPolicyKeep         ReorderQuantityPolicy = "keep"
	ReorderQuantityPolicyClampToStock ReorderQuantityPolicy = "clamp_to_stock"
	ReorderQuantityPolicyReject       ReorderQuantityPolicy = "reject"
)

var validReorderQuantityPolicies = []ReorderQuantityPolicy{
	ReorderQuantityPolicyKeep,
	ReorderQuantityPolicyClampToStock,
	ReorderQuantityPolicyReject,
}

// String implements fmt.Stringer.
func (r ReorderQuantityPolicy) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r ReorderQuantityPolicy) IsValid() bool {
	for _, candidate := range validReorderQuantityPolicies {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReorderQuantityPolicy converts raw input into a ReorderQuantityPolicy.
func ParseReorderQuantityPolicy(value string) (ReorderQuantityPolicy, error) {
	for _, candidate := range validReorderQuantityPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reorder quantity policy %q", value)
}
