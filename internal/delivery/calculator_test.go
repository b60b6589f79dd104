package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user941211/delivery-sub004/pkg/types"
)

var (
	origin = types.GeoPoint{Lat: 37.5665, Lng: 126.9780}
	// roughly 4.5 km east
	nearby = types.GeoPoint{Lat: 37.5665, Lng: 127.0290}
	// roughly 30 km south
	faraway = types.GeoPoint{Lat: 37.2970, Lng: 126.9780}
)

func testConfig() Config {
	return Config{
		BaseFee:         2000,
		Bands:           []Band{{UpToKm: 3, Surcharge: 0}, {UpToKm: 6, Surcharge: 1000}, {UpToKm: 10, Surcharge: 2000}},
		FreeDeliveryMin: 50000,
		ServiceRadiusKm: 10,
	}
}

func TestQuoteDistanceBand(t *testing.T) {
	t.Parallel()

	quote := NewCalculator().Quote(testConfig(), origin, &nearby, 38000, false)

	assert.True(t, quote.IsAvailable)
	assert.InDelta(t, 4.5, quote.DistanceKm, 0.2)
	assert.Equal(t, int64(2000), quote.BaseFee)
	assert.Equal(t, int64(1000), quote.AdditionalFee)
	assert.Equal(t, int64(3000), quote.TotalFee)
	require.NotNil(t, quote.FreeDeliveryMinAmount)
	assert.Equal(t, int64(50000), *quote.FreeDeliveryMinAmount)
}

func TestQuoteOutsideRadius(t *testing.T) {
	t.Parallel()

	quote := NewCalculator().Quote(testConfig(), origin, &faraway, 38000, false)

	assert.False(t, quote.IsAvailable)
	assert.Zero(t, quote.TotalFee)
	assert.Contains(t, quote.UnavailableReason, "delivery radius")
}

func TestQuoteFreeDelivery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		subtotal int64
		freeRule bool
	}{
		{name: "threshold met", subtotal: 50000},
		{name: "threshold exceeded", subtotal: 72000},
		{name: "free delivery discount", subtotal: 1000, freeRule: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			quote := NewCalculator().Quote(testConfig(), origin, &nearby, tc.subtotal, tc.freeRule)
			assert.True(t, quote.IsAvailable)
			assert.True(t, quote.Waived)
			assert.Zero(t, quote.TotalFee)
		})
	}
}

func TestQuoteWithoutThreshold(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.FreeDeliveryMin = 0
	quote := NewCalculator().Quote(cfg, origin, &nearby, 1_000_000, false)

	assert.Nil(t, quote.FreeDeliveryMinAmount)
	assert.False(t, quote.Waived)
	assert.Equal(t, int64(3000), quote.TotalFee)
}

func TestQuoteWithoutDestination(t *testing.T) {
	t.Parallel()

	quote := NewCalculator().Quote(testConfig(), origin, nil, 1000, false)

	assert.True(t, quote.IsAvailable)
	assert.Zero(t, quote.DistanceKm)
	assert.Equal(t, int64(2000), quote.TotalFee)
}

func TestQuoteInvalidDestination(t *testing.T) {
	t.Parallel()

	bad := types.GeoPoint{Lat: 123, Lng: 0}
	quote := NewCalculator().Quote(testConfig(), origin, &bad, 1000, false)

	assert.False(t, quote.IsAvailable)
	assert.Contains(t, quote.UnavailableReason, "invalid delivery address")
}

func TestBandSurcharge(t *testing.T) {
	t.Parallel()

	bands := testConfig().Bands
	assert.Equal(t, int64(0), bandSurcharge(bands, 0))
	assert.Equal(t, int64(0), bandSurcharge(bands, 3))
	assert.Equal(t, int64(1000), bandSurcharge(bands, 3.01))
	assert.Equal(t, int64(2000), bandSurcharge(bands, 10))
	assert.Equal(t, int64(2000), bandSurcharge(bands, 14))
	assert.Equal(t, int64(0), bandSurcharge(nil, 5))
}

func TestQuoteUnlimitedRadius(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ServiceRadiusKm = 0
	quote := NewCalculator().Quote(cfg, origin, &faraway, 1000, false)

	assert.True(t, quote.IsAvailable)
	assert.Equal(t, int64(4000), quote.TotalFee)
}
