package menu

import (
	"context"

	"github.com/google/uuid"
)

// Provider returns the live menu for a restaurant.
type Provider interface {
	Snapshot(ctx context.Context, restaurantID uuid.UUID) (*Snapshot, error)
}

// Snapshot is the live menu of one restaurant at a point in time.
type Snapshot struct {
	RestaurantID uuid.UUID          `json:"restaurant_id"`
	Items        map[uuid.UUID]Item `json:"items"`
}

// Item is the live state of a menu entry.
type Item struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       int64         `json:"price"`
	ImageURL    string        `json:"image_url"`
	IsAvailable bool          `json:"is_available"`
	Stock       *int          `json:"stock,omitempty"`
	Groups      []OptionGroup `json:"groups"`
}

// OptionGroup is a set of choices; required groups cannot be left empty.
type OptionGroup struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Required  bool      `json:"required"`
	MinSelect int       `json:"min_select"`
	MaxSelect int       `json:"max_select"`
	Options   []Option  `json:"options"`
}

// Option is the live state of a selectable choice.
type Option struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	AdditionalPrice int64     `json:"additional_price"`
	IsAvailable     bool      `json:"is_available"`
	Stock           *int      `json:"stock,omitempty"`
}

// Item looks up a menu entry by id.
func (s *Snapshot) Item(id uuid.UUID) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	item, ok := s.Items[id]
	return item, ok
}

// Orderable reports whether the entry can currently be ordered.
func (i Item) Orderable() bool {
	return i.IsAvailable && (i.Stock == nil || *i.Stock >= 1)
}

// Group looks up an option group by id.
func (i Item) Group(id uuid.UUID) (OptionGroup, bool) {
	for _, g := range i.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return OptionGroup{}, false
}

// Option looks up an option and its owning group.
func (i Item) Option(id uuid.UUID) (Option, OptionGroup, bool) {
	for _, g := range i.Groups {
		for _, o := range g.Options {
			if o.ID == id {
				return o, g, true
			}
		}
	}
	return Option{}, OptionGroup{}, false
}

// MinSelections returns how many options the group needs at least.
func (g OptionGroup) MinSelections() int {
	if g.Required && g.MinSelect < 1 {
		return 1
	}
	return g.MinSelect
}

// InStock reports whether the option is available and, when tracked, has stock left.
func (o Option) InStock() bool {
	return o.IsAvailable && (o.Stock == nil || *o.Stock >= 1)
}

// StockLimit returns the lowest tracked stock across the entry and the given options, if any is tracked.
func (i Item) StockLimit(optionIDs []uuid.UUID) (int, bool) {
	limit, tracked := 0, false
	consider := func(stock *int) {
		if stock == nil {
			return
		}
		if !tracked || *stock < limit {
			limit = *stock
		}
		tracked = true
	}
	consider(i.Stock)
	for _, id := range optionIDs {
		if opt, _, ok := i.Option(id); ok {
			consider(opt.Stock)
		}
	}
	return limit, tracked
}
