package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/user941211/delivery-sub004/pkg/enums"
)

// CartItemWarning captures one structured change detected on a cart line.
type CartItemWarning struct {
	Type    enums.CartItemWarningType `json:"type"`
	Message string                    `json:"message"`
}

// CartItemWarnings is a slice marshaled as JSON.
type CartItemWarnings []CartItemWarning

// Value serializes the warnings to JSON.
func (c CartItemWarnings) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan decodes JSON into the warning slice.
func (c *CartItemWarnings) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded CartItemWarnings
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*c = decoded
	return nil
}

// Has reports whether a warning of the given type is present.
func (c CartItemWarnings) Has(kind enums.CartItemWarningType) bool {
	for _, w := range c {
		if w.Type == kind {
			return true
		}
	}
	return false
}

// SelectedOption is an option choice captured on a cart line at add time.
type SelectedOption struct {
	OptionID        uuid.UUID `json:"option_id"`
	GroupID         uuid.UUID `json:"group_id"`
	Name            string    `json:"name"`
	AdditionalPrice int64     `json:"additional_price"`
}

// SelectedOptions preserves the customer's selection order.
type SelectedOptions []SelectedOption

// Value serializes the options to JSON.
func (s SelectedOptions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSON into the option slice.
func (s *SelectedOptions) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded SelectedOptions
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// Total sums the captured additional prices.
func (s SelectedOptions) Total() int64 {
	var total int64
	for _, opt := range s {
		total += opt.AdditionalPrice
	}
	return total
}

// SameChoice reports whether both selections reference the same option ids in the same order.
func (s SelectedOptions) SameChoice(other SelectedOptions) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].OptionID != other[i].OptionID {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s SelectedOptions) Clone() SelectedOptions {
	if s == nil {
		return nil
	}
	out := make(SelectedOptions, len(s))
	copy(out, s)
	return out
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
