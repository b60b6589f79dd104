package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user941211/delivery-sub004/internal/delivery"
	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/internal/domain"
	"github.com/user941211/delivery-sub004/internal/validation"
	"github.com/user941211/delivery-sub004/pkg/enums"
)

func int64Ptr(v int64) *int64 { return &v }

func line(total int64, status enums.CartItemStatus) domain.Item {
	return domain.Item{ID: uuid.New(), Quantity: 1, TotalPrice: total, Status: status}
}

func validated(items ...domain.Item) validation.ValidatedCart {
	out := validation.ValidatedCart{Cart: domain.Cart{Items: items}}
	for _, item := range items {
		if item.Priceable() {
			out.UsableItems = append(out.UsableItems, item)
		}
	}
	return out
}

func quote(fee int64) delivery.Quote {
	return delivery.Quote{IsAvailable: true, BaseFee: fee, TotalFee: fee}
}

func TestPriceScenarioWithoutDiscounts(t *testing.T) {
	t.Parallel()

	result := NewEngine().Price(validated(line(38000, enums.CartItemStatusActive)), nil, quote(3000), Config{})

	assert.Equal(t, int64(38000), result.Breakdown.Subtotal)
	assert.Equal(t, int64(3000), result.Breakdown.DeliveryFee)
	assert.Equal(t, int64(41000), result.Breakdown.TotalAmount)
	assert.NotNil(t, result.Breakdown.Discounts)
	assert.True(t, result.CanOrder)
	assert.Nil(t, result.OrderBlockReason)
}

func TestPriceScenarioWithPercentageDiscount(t *testing.T) {
	t.Parallel()

	apps := []discounts.Application{{RuleID: uuid.New(), Kind: enums.DiscountKindPercentage, DiscountAmount: 3800}}
	result := NewEngine().Price(validated(line(38000, enums.CartItemStatusActive)), apps, quote(3000), Config{})

	assert.Equal(t, int64(3800), result.Breakdown.DiscountAmount)
	assert.Equal(t, int64(37200), result.Breakdown.TotalAmount)
}

func TestPriceExcludesUnavailable(t *testing.T) {
	t.Parallel()

	cart := validated(line(20000, enums.CartItemStatusActive), line(15000, enums.CartItemStatusUnavailable), line(5000, enums.CartItemStatusModified))
	result := NewEngine().Price(cart, nil, quote(0), Config{MinOrderAmount: 30000})

	assert.Equal(t, int64(25000), result.Breakdown.Subtotal)
	assert.False(t, result.CanOrder)
	require.NotNil(t, result.OrderBlockReason)
	assert.Equal(t, enums.OrderBlockReasonBelowMinimum, *result.OrderBlockReason)
}

func TestPriceBlockReasonPriority(t *testing.T) {
	t.Parallel()

	unavailable := delivery.Quote{}.Unavailable("too far")

	cases := []struct {
		name   string
		cart   validation.ValidatedCart
		quote  delivery.Quote
		min    int64
		reason *enums.OrderBlockReason
	}{
		{
			name:   "empty beats everything",
			cart:   validated(line(90000, enums.CartItemStatusUnavailable)),
			quote:  unavailable,
			min:    100000,
			reason: reasonPtr(enums.OrderBlockReasonEmptyCart),
		},
		{
			name:   "below minimum beats delivery",
			cart:   validated(line(9000, enums.CartItemStatusActive)),
			quote:  unavailable,
			min:    10000,
			reason: reasonPtr(enums.OrderBlockReasonBelowMinimum),
		},
		{
			name:   "delivery unavailable",
			cart:   validated(line(12000, enums.CartItemStatusActive)),
			quote:  unavailable,
			min:    10000,
			reason: reasonPtr(enums.OrderBlockReasonDeliveryUnavailable),
		},
		{
			name:  "orderable at exact minimum",
			cart:  validated(line(10000, enums.CartItemStatusActive)),
			quote: quote(1000),
			min:   10000,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := NewEngine().Price(tc.cart, nil, tc.quote, Config{MinOrderAmount: tc.min})
			assert.Equal(t, tc.reason == nil, result.CanOrder)
			assert.Equal(t, tc.reason, result.OrderBlockReason)
		})
	}
}

func TestPriceDiscountClampedToSubtotal(t *testing.T) {
	t.Parallel()

	apps := []discounts.Application{{DiscountAmount: 8000}, {DiscountAmount: 4000}}
	result := NewEngine().Price(validated(line(10000, enums.CartItemStatusActive)), apps, quote(0), Config{})

	assert.Equal(t, int64(10000), result.Breakdown.DiscountAmount)
	assert.Equal(t, int64(0), result.Breakdown.TotalAmount)
}

func TestPriceAmountForFreeDelivery(t *testing.T) {
	t.Parallel()

	withThreshold := quote(3000)
	withThreshold.FreeDeliveryMinAmount = int64Ptr(50000)

	result := NewEngine().Price(validated(line(38000, enums.CartItemStatusActive)), nil, withThreshold, Config{})
	require.NotNil(t, result.Breakdown.AmountForFreeDelivery)
	assert.Equal(t, int64(12000), *result.Breakdown.AmountForFreeDelivery)

	met := withThreshold
	met.TotalFee = 0
	met.Waived = true
	result = NewEngine().Price(validated(line(50000, enums.CartItemStatusActive)), nil, met, Config{})
	assert.Nil(t, result.Breakdown.AmountForFreeDelivery)
	assert.Equal(t, int64(0), result.Breakdown.DeliveryFee)

	free := []discounts.Application{{Kind: enums.DiscountKindFreeDelivery}}
	result = NewEngine().Price(validated(line(38000, enums.CartItemStatusActive)), free, met, Config{})
	assert.Nil(t, result.Breakdown.AmountForFreeDelivery)

	result = NewEngine().Price(validated(line(38000, enums.CartItemStatusActive)), nil, quote(3000), Config{})
	assert.Nil(t, result.Breakdown.AmountForFreeDelivery)

	outOfRange := withThreshold.Unavailable("outside the delivery area")
	result = NewEngine().Price(validated(line(38000, enums.CartItemStatusActive)), nil, outOfRange, Config{})
	assert.Nil(t, result.Breakdown.AmountForFreeDelivery)
}

func TestSubtotalSkipsUnavailable(t *testing.T) {
	t.Parallel()

	items := []domain.Item{line(100, enums.CartItemStatusActive), line(50, enums.CartItemStatusUnavailable)}
	assert.Equal(t, int64(100), Subtotal(items))
}

func reasonPtr(r enums.OrderBlockReason) *enums.OrderBlockReason { return &r }
