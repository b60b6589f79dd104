package discounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/internal/upstream"
	"github.com/user941211/delivery-sub004/pkg/db/models"
	"github.com/user941211/delivery-sub004/pkg/enums"
	pkgerrors "github.com/user941211/delivery-sub004/pkg/errors"

	dbtypes "github.com/user941211/delivery-sub004/pkg/db/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func TestRepositoryCatalog(t *testing.T) {
	conn := openTestDB(t)
	restaurantID := uuid.New()
	other := uuid.New()
	platform := models.Discount{Name: "Welcome", Kind: enums.DiscountKindFixed, Value: decimal.NewFromInt(2000), IsActive: true, FirstOrderOnly: true, Position: 2}
	local := models.Discount{RestaurantID: &restaurantID, Name: "Lunch", Kind: enums.DiscountKindPercentage, Value: decimal.NewFromInt(10), MaxDiscountAmount: int64Ptr(5000), IsActive: true, Position: 1}
	require.NoError(t, conn.Create(&platform).Error)
	require.NoError(t, conn.Create(&local).Error)

	local2 := models.Discount{RestaurantID: &restaurantID, Name: "Combo", Kind: enums.DiscountKindFixed, Value: decimal.NewFromInt(500), IsActive: true, StackableWith: dbtypes.UUIDArray{local.ID}, Position: 3}
	inactive := models.Discount{RestaurantID: &restaurantID, Name: "Old", Kind: enums.DiscountKindFixed, Value: decimal.NewFromInt(1), IsActive: false}
	foreign := models.Discount{RestaurantID: &other, Name: "Elsewhere", Kind: enums.DiscountKindFixed, Value: decimal.NewFromInt(1), IsActive: true}
	require.NoError(t, conn.Create(&local2).Error)
	require.NoError(t, conn.Create(&inactive).Error)
	require.NoError(t, conn.Create(&foreign).Error)

	rules, err := NewRepository(conn).Catalog(context.Background(), restaurantID)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "Lunch", rules[0].Name)
	assert.True(t, rules[0].Value.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, rules[0].MaxDiscountAmount)
	assert.Equal(t, int64(5000), *rules[0].MaxDiscountAmount)
	assert.Equal(t, "Welcome", rules[1].Name)
	assert.Nil(t, rules[1].RestaurantID)
	assert.True(t, rules[1].FirstOrderOnly)
	assert.Equal(t, []uuid.UUID{local.ID}, rules[2].StackableWith)
}

func TestRuleEligibleWindowBoundaries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rule := fixed(100)
	rule.StartsAt = &now
	end := now.Add(time.Hour)
	rule.EndsAt = &end

	assert.True(t, rule.Eligible(Context{Now: now}))
	assert.False(t, rule.Eligible(Context{Now: end}))
	assert.False(t, Rule{Kind: "bogus"}.Eligible(Context{Now: now}))
}

type failingCatalog struct{ calls int }

func (f *failingCatalog) Catalog(context.Context, uuid.UUID) ([]Rule, error) {
	f.calls++
	return nil, errors.New("timeout")
}

func TestGuardedCatalogOpensAfterFailures(t *testing.T) {
	t.Parallel()

	inner := &failingCatalog{}
	guarded := NewGuardedCatalog(inner, upstream.Settings{MaxFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := guarded.Catalog(context.Background(), uuid.New())
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstreamUnavailable))
	}
	assert.Equal(t, 2, inner.calls)
}
