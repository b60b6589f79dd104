package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/internal/menu"
	"github.com/user941211/delivery-sub004/internal/pricing"
	"github.com/user941211/delivery-sub004/internal/restaurants"
	"github.com/user941211/delivery-sub004/pkg/db/models"
	"github.com/user941211/delivery-sub004/pkg/enums"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"
	"github.com/user941211/delivery-sub004/pkg/logger"
	"github.com/user941211/delivery-sub004/pkg/maps"
	"github.com/user941211/delivery-sub004/pkg/metrics"
	"github.com/user941211/delivery-sub004/pkg/types"
)

const maxInstructionsLength = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderReader interface {
	FindForCustomer(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	CountForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type placeResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (*maps.Place, error)
}

// Destination is where the cart would be delivered. PlaceID is resolved through Places
// when Point is not given; an empty destination prices delivery without a distance.
type Destination struct {
	Point   *types.GeoPoint
	PlaceID string
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	RestaurantID        uuid.UUID
	MenuItemID          uuid.UUID
	Quantity            int
	OptionIDs           []uuid.UUID
	SpecialInstructions string
	Destination         Destination
}

// UpdateItemInput changes a line. Nil fields are left as they are.
type UpdateItemInput struct {
	Quantity            *int
	OptionIDs           *[]uuid.UUID
	SpecialInstructions *string
	Destination         Destination
}

// ReorderInput copies a past order into the cart.
type ReorderInput struct {
	OrderID     uuid.UUID
	Destination Destination
}

// ReorderSkip reports an order line that could not be copied.
type ReorderSkip struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Reason     string    `json:"reason"`
}

// ReorderAdjustment reports a copied line whose quantity was changed.
type ReorderAdjustment struct {
	MenuItemID        uuid.UUID             `json:"menu_item_id"`
	Name              string                `json:"name"`
	RequestedQuantity int                   `json:"requested_quantity"`
	Quantity          int                   `json:"quantity"`
	Warning           types.CartItemWarning `json:"warning"`
}

// ReorderResult is the new cart plus what could not be carried over unchanged.
type ReorderResult struct {
	Snapshot *Snapshot           `json:"snapshot"`
	Skipped  []ReorderSkip       `json:"skipped"`
	Adjusted []ReorderAdjustment `json:"adjusted"`
}

// Service exposes the customer-facing cart operations.
type Service interface {
	Get(ctx context.Context, customerID uuid.UUID, dest Destination) (*Snapshot, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*Snapshot, error)
	UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, input UpdateItemInput) (*Snapshot, error)
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID, dest Destination) (*Snapshot, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	Reorder(ctx context.Context, customerID uuid.UUID, input ReorderInput) (*ReorderResult, error)
}

// ServiceParams lists the collaborators of the cart service. Places, Metrics and Clock are optional.
type ServiceParams struct {
	Repo          Repository
	Tx            txRunner
	Menu          menu.Provider
	Discounts     discounts.CatalogProvider
	Restaurants   restaurants.Provider
	Orders        orderReader
	Places        placeResolver
	Metrics       *metrics.PricingMetrics
	Logger        *logger.Logger
	ReorderPolicy enums.ReorderQuantityPolicy
	Clock         func() time.Time
}

type service struct {
	repo        Repository
	tx          txRunner
	menu        menu.Provider
	discounts   discounts.CatalogProvider
	restaurants restaurants.Provider
	orders      orderReader
	places      placeResolver
	metrics     *metrics.PricingMetrics
	logg        *logger.Logger
	policy      enums.ReorderQuantityPolicy
	now         func() time.Time
	engine      *Engine
}

// NewService builds a cart service backed by the provided stack.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Menu == nil {
		return nil, fmt.Errorf("menu provider required")
	}
	if p.Discounts == nil {
		return nil, fmt.Errorf("discount catalog required")
	}
	if p.Restaurants == nil {
		return nil, fmt.Errorf("restaurant provider required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.ReorderPolicy == "" {
		p.ReorderPolicy = enums.ReorderQuantityPolicyClampToStock
	}
	if !p.ReorderPolicy.IsValid() {
		return nil, fmt.Errorf("invalid reorder quantity policy %q", p.ReorderPolicy)
	}
	if p.Clock == nil {
		p.Clock = time.Now
	}
	return &service{
		repo:        p.Repo,
		tx:          p.Tx,
		menu:        p.Menu,
		discounts:   p.Discounts,
		restaurants: p.Restaurants,
		orders:      p.Orders,
		places:      p.Places,
		metrics:     p.Metrics,
		logg:        p.Logger,
		policy:      p.ReorderPolicy,
		now:         p.Clock,
		engine:      NewEngine(),
	}, nil
}

// Get revalidates the stored cart. Status changes are written back when the stored
// version is still current; losing that race still returns the fresh snapshot.
func (s *service) Get(ctx context.Context, customerID uuid.UUID, dest Destination) (*Snapshot, error) {
	defer s.observe("get", s.now())

	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	ctx = s.logContext(ctx, current)

	snapshot, err := s.revalidate(ctx, *current, dest)
	if err != nil {
		return nil, err
	}
	if !snapshot.Cart.ChangedSince(*current) {
		return snapshot, nil
	}
	if err := s.save(ctx, &snapshot.Cart); err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
			s.logg.Warn(ctx, "cart.status_write_skipped")
			return snapshot, nil
		}
		return nil, err
	}
	return snapshot, nil
}

func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*Snapshot, error) {
	defer s.observe("add_item", s.now())

	if err := checkQuantity(input.Quantity); err != nil {
		return nil, err
	}
	instructions, err := normalizeInstructions(input.SpecialInstructions)
	if err != nil {
		return nil, err
	}
	if input.RestaurantID == uuid.Nil || input.MenuItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant_id and menu_item_id are required")
	}

	current, err := s.loadOrNew(ctx, customerID, input.RestaurantID)
	if err != nil {
		return nil, err
	}
	if len(current.Items) > 0 && current.RestaurantID != input.RestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart holds items from another restaurant").
			WithDetails(map[string]any{
				"cart_restaurant_id":      current.RestaurantID.String(),
				"requested_restaurant_id": input.RestaurantID.String(),
			})
	}
	current.RestaurantID = input.RestaurantID
	ctx = s.logContext(ctx, current)

	inputs, err := s.fetchInputs(ctx, *current, input.Destination)
	if err != nil {
		return nil, err
	}

	live, ok := inputs.Menu.Item(input.MenuItemID)
	if !ok {
		return nil, pkgerrors.NotFound("menu item", input.MenuItemID)
	}
	if !live.Orderable() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is currently unavailable", live.Name))
	}
	options, err := selectOptions(live, input.OptionIDs)
	if err != nil {
		return nil, err
	}

	if idx := mergeTarget(current.Items, live.ID, options, instructions); idx >= 0 {
		merged := current.Items[idx].Quantity + input.Quantity
		if err := checkQuantity(merged); err != nil {
			return nil, err
		}
		current.Items[idx].Quantity = merged
	} else {
		current.Items = append(current.Items, captureLine(current.RestaurantID, live, options, input.Quantity, instructions))
	}

	return s.priceAndSave(ctx, *current, inputs)
}

func (s *service) UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, input UpdateItemInput) (*Snapshot, error) {
	defer s.observe("update_item", s.now())

	if input.Quantity != nil {
		if err := checkQuantity(*input.Quantity); err != nil {
			return nil, err
		}
	}
	var instructions *string
	if input.SpecialInstructions != nil {
		normalized, err := normalizeInstructions(*input.SpecialInstructions)
		if err != nil {
			return nil, err
		}
		instructions = &normalized
	}

	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	ctx = s.logContext(ctx, current)
	idx := current.FindItem(itemID)
	if idx < 0 {
		return nil, pkgerrors.NotFound("cart item", itemID)
	}
	if current.Items[idx].Status == enums.CartItemStatusUnavailable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "item is unavailable; remove it and add it again")
	}

	inputs, err := s.fetchInputs(ctx, *current, input.Destination)
	if err != nil {
		return nil, err
	}

	line := current.Items[idx]
	if input.OptionIDs != nil {
		live, ok := inputs.Menu.Item(line.MenuItemID)
		if !ok {
			return nil, pkgerrors.NotFound("menu item", line.MenuItemID)
		}
		if !live.Orderable() {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s is currently unavailable", live.Name))
		}
		options, err := selectOptions(live, *input.OptionIDs)
		if err != nil {
			return nil, err
		}
		fresh := captureLine(current.RestaurantID, live, options, line.Quantity, line.SpecialInstructions)
		fresh.ID = line.ID
		line = fresh
	}
	if input.Quantity != nil {
		line.Quantity = *input.Quantity
	}
	if instructions != nil {
		line.SpecialInstructions = *instructions
	}
	current.Items[idx] = line

	return s.priceAndSave(ctx, *current, inputs)
}

func (s *service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID, dest Destination) (*Snapshot, error) {
	defer s.observe("remove_item", s.now())

	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	ctx = s.logContext(ctx, current)
	idx := current.FindItem(itemID)
	if idx < 0 {
		return nil, pkgerrors.NotFound("cart item", itemID)
	}
	current.Items = append(current.Items[:idx], current.Items[idx+1:]...)

	inputs, err := s.fetchInputs(ctx, *current, dest)
	if err != nil {
		return nil, err
	}
	return s.priceAndSave(ctx, *current, inputs)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	defer s.observe("clear", s.now())

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteByCustomer(ctx, customerID)
	})
}

// Reorder replaces the cart contents with the still-orderable lines of a past order.
// Quantities above tracked stock follow the configured policy.
func (s *service) Reorder(ctx context.Context, customerID uuid.UUID, input ReorderInput) (*ReorderResult, error) {
	defer s.observe("reorder", s.now())

	order, err := s.orders.FindForCustomer(ctx, input.OrderID, customerID)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	current, err := s.loadOrNew(ctx, customerID, order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if len(current.Items) > 0 && current.RestaurantID != order.RestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart holds items from another restaurant").
			WithDetails(map[string]any{
				"cart_restaurant_id":  current.RestaurantID.String(),
				"order_restaurant_id": order.RestaurantID.String(),
			})
	}
	current.RestaurantID = order.RestaurantID
	current.Items = nil
	ctx = s.logContext(ctx, current)

	inputs, err := s.fetchInputs(ctx, *current, input.Destination)
	if err != nil {
		return nil, err
	}

	result := &ReorderResult{Skipped: []ReorderSkip{}, Adjusted: []ReorderAdjustment{}}
	for _, line := range order.Items {
		item, idx, adjustment, skip := s.reorderLine(inputs.Menu, current, line)
		if skip != nil {
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		if adjustment != nil {
			result.Adjusted = append(result.Adjusted, *adjustment)
		}
		if idx >= 0 {
			current.Items[idx].Quantity += item.Quantity
			continue
		}
		current.Items = append(current.Items, item)
	}

	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "none of the order's items can be reordered").
			WithDetails(map[string]any{"skipped": result.Skipped})
	}

	snapshot, err := s.priceAndSave(ctx, *current, inputs)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snapshot
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"copied":   len(current.Items),
		"skipped":  len(result.Skipped),
		"adjusted": len(result.Adjusted),
	}), "cart.reordered")
	return result, nil
}

// reorderLine captures one order line against the live menu. The returned index is
// the cart line it merges into, or -1. Stock and quantity limits apply to the merged
// quantity so duplicate order lines cannot exceed them.
func (s *service) reorderLine(snap *menu.Snapshot, c *domain.Cart, line models.OrderItem) (domain.Item, int, *ReorderAdjustment, *ReorderSkip) {
	skip := func(reason string) (domain.Item, int, *ReorderAdjustment, *ReorderSkip) {
		return domain.Item{}, -1, nil, &ReorderSkip{MenuItemID: line.MenuItemID, Name: line.Name, Reason: reason}
	}

	live, ok := snap.Item(line.MenuItemID)
	if !ok {
		return skip("no longer on the menu")
	}
	if !live.Orderable() {
		return skip("currently unavailable")
	}
	ids := optionIDs(line.SelectedOptions)
	options, err := selectOptions(live, ids)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return skip(typed.Message())
		}
		return skip(err.Error())
	}

	idx := mergeTarget(c.Items, live.ID, options, line.SpecialInstructions)
	existing := 0
	if idx >= 0 {
		existing = c.Items[idx].Quantity
	}
	if existing >= domain.MaxItemQuantity {
		return skip(fmt.Sprintf("at most %d per line", domain.MaxItemQuantity))
	}

	requested := min(max(line.Quantity, domain.MinItemQuantity), domain.MaxItemQuantity-existing)
	quantity := requested
	var adjustment *ReorderAdjustment
	if limit, tracked := live.StockLimit(ids); tracked && existing+requested > limit {
		switch s.policy {
		case enums.ReorderQuantityPolicyReject:
			return skip(fmt.Sprintf("only %d left in stock", limit))
		case enums.ReorderQuantityPolicyClampToStock:
			if limit-existing < domain.MinItemQuantity {
				return skip("out of stock")
			}
			quantity = limit - existing
			adjustment = &ReorderAdjustment{
				MenuItemID:        live.ID,
				Name:              live.Name,
				RequestedQuantity: requested,
				Quantity:          quantity,
				Warning: types.CartItemWarning{
					Type:    enums.CartItemWarningTypeQuantityClamped,
					Message: fmt.Sprintf("quantity reduced from %d to %d to match stock", requested, quantity),
				},
			}
		}
	}

	return captureLine(c.RestaurantID, live, options, quantity, line.SpecialInstructions), idx, adjustment, nil
}

func (s *service) load(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	current, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return current, nil
}

func (s *service) loadOrNew(ctx context.Context, customerID, restaurantID uuid.UUID) (*domain.Cart, error) {
	current, err := s.load(ctx, customerID)
	if err == nil {
		return current, nil
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	now := s.now().UTC()
	return &domain.Cart{
		ID:           uuid.New(),
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Items:        []domain.Item{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// fetchInputs gathers menu, discounts, restaurant, first-order flag and destination
// concurrently. Any failure fails the whole call.
func (s *service) fetchInputs(ctx context.Context, c domain.Cart, dest Destination) (Inputs, error) {
	var (
		snap       *menu.Snapshot
		catalog    []discounts.Rule
		profile    *restaurants.Profile
		orderCount int64
	)
	point := dest.Point

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.menu.Snapshot(gctx, c.RestaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.discounts.Catalog(gctx, c.RestaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.restaurants.Profile(gctx, c.RestaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		orderCount, err = s.orders.CountForCustomer(gctx, c.CustomerID)
		if err != nil && pkgerrors.As(err) == nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}
		return err
	})
	if point == nil && strings.TrimSpace(dest.PlaceID) != "" {
		g.Go(func() error {
			if s.places == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "place_id lookups are not configured")
			}
			place, err := s.places.ResolvePlace(gctx, dest.PlaceID)
			if err != nil {
				return err
			}
			location := place.Location
			point = &location
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.IncRevalidation(metrics.OutcomeFailure)
		s.logg.Error(ctx, "cart.revalidate_failed", err)
		return Inputs{}, err
	}

	return Inputs{
		Menu:    snap,
		Catalog: catalog,
		DiscountContext: discounts.Context{
			CartID:       c.ID,
			CustomerID:   c.CustomerID,
			RestaurantID: c.RestaurantID,
			Now:          s.now().UTC(),
			FirstOrder:   orderCount == 0,
		},
		Delivery:       profile.Delivery,
		Origin:         profile.Location,
		Destination:    point,
		RestaurantOpen: profile.IsOpen,
		Pricing:        pricing.Config{MinOrderAmount: profile.MinOrderAmount},
	}, nil
}

func (s *service) revalidate(ctx context.Context, c domain.Cart, dest Destination) (*Snapshot, error) {
	inputs, err := s.fetchInputs(ctx, c, dest)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, c, inputs)
}

func (s *service) price(ctx context.Context, c domain.Cart, inputs Inputs) (*Snapshot, error) {
	snapshot, err := s.engine.RevalidateAndPrice(c, inputs)
	if err != nil {
		s.metrics.IncRevalidation(metrics.OutcomeFailure)
		s.logg.Error(ctx, "cart.revalidate_failed", err)
		return nil, err
	}

	counts := snapshot.StatusCounts()
	fields := map[string]any{
		"subtotal":  snapshot.Breakdown.Subtotal,
		"total":     snapshot.Breakdown.TotalAmount,
		"can_order": snapshot.CanOrder,
	}
	for status, n := range counts {
		fields[status.String()] = n
		s.metrics.AddItemStatus(status.String(), n)
	}
	if snapshot.OrderBlockReason != nil {
		fields["block_reason"] = snapshot.OrderBlockReason.String()
		s.metrics.IncBlocked(snapshot.OrderBlockReason.String())
	}
	s.metrics.IncRevalidation(metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithFields(ctx, fields), "cart.revalidated")
	return snapshot, nil
}

func (s *service) priceAndSave(ctx context.Context, c domain.Cart, inputs Inputs) (*Snapshot, error) {
	snapshot, err := s.price(ctx, c, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, &snapshot.Cart); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) save(ctx context.Context, c *domain.Cart) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, c)
	})
	if err == nil || pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
}

func (s *service) logContext(ctx context.Context, c *domain.Cart) context.Context {
	ctx = s.logg.WithCustomerID(ctx, c.CustomerID.String())
	ctx = s.logg.WithCartID(ctx, c.ID.String())
	return s.logg.WithRestaurantID(ctx, c.RestaurantID.String())
}

func (s *service) observe(operation string, start time.Time) {
	s.metrics.ObserveDuration(operation, s.now().Sub(start))
}

func normalizeInstructions(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len([]rune(value)) > maxInstructionsLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("special instructions must be at most %d characters", maxInstructionsLength))
	}
	return value, nil
}
