package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }
func iptr(v int) *int    { return &v }

func TestCalculateLineItemTotal(t *testing.T) {
	total, err := CalculateLineItemTotal(PricedItem{UnitPriceMinor: 2500, Quantity: 3, Currency: "TRY"})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), total.AmountMinor)
}

func TestCalculateSubtotalMatchesSumOfLines(t *testing.T) {
	items := []PricedItem{
		{UnitPriceMinor: 1000, Quantity: 2, Currency: "TRY"},
		{UnitPriceMinor: 350, Quantity: 1, Currency: "TRY"},
		{UnitPriceMinor: 99, Quantity: 5, Currency: "TRY"},
	}
	var want int64
	for _, it := range items {
		line, err := CalculateLineItemTotal(it)
		require.NoError(t, err)
		want += line.AmountMinor
	}
	subtotal, err := CalculateSubtotal(items, "TRY")
	require.NoError(t, err)
	assert.Equal(t, want, subtotal.AmountMinor)
}

func TestCalculateSubtotalEmptyCart(t *testing.T) {
	subtotal, err := CalculateSubtotal(nil, "TRY")
	require.NoError(t, err)
	assert.Equal(t, ZeroMoney("TRY"), subtotal)
}

func TestFreeShippingThreshold(t *testing.T) {
	rules := ShippingRules{Domestic: ShippingRate{BasePriceMinor: 2000, FreeAboveMinor: i64(50000)}}

	at, err := CalculateShippingForSeller([]PricedItem{{UnitPriceMinor: 50000, Quantity: 1, Currency: "TRY"}}, rules, false, "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(0), at.AmountMinor, "exactly at threshold ships free")

	below, err := CalculateShippingForSeller([]PricedItem{{UnitPriceMinor: 49999, Quantity: 1, Currency: "TRY"}}, rules, false, "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), below.AmountMinor, "one minor unit below pays base")
}

func TestShippingAdditionalUnits(t *testing.T) {
	rules := ShippingRules{Domestic: ShippingRate{BasePriceMinor: 2000, AdditionalItemMinor: i64(500)}}
	items := []PricedItem{
		{UnitPriceMinor: 100, Quantity: 1, Currency: "TRY"},
		{UnitPriceMinor: 100, Quantity: 2, Currency: "TRY"},
	}
	// 3 units total: first pays base, two more pay the per-unit add-on.
	got, err := CalculateShippingForSeller(items, rules, false, "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(2000+500*2), got.AmountMinor)
}

func TestShippingAdditionalItemDefaultsToZero(t *testing.T) {
	rules := ShippingRules{Domestic: ShippingRate{BasePriceMinor: 1500}}
	items := []PricedItem{{UnitPriceMinor: 100, Quantity: 4, Currency: "TRY"}}
	got, err := CalculateShippingForSeller(items, rules, false, "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.AmountMinor)
}

func TestShippingInternationalWithoutRate(t *testing.T) {
	rules := ShippingRules{Domestic: ShippingRate{BasePriceMinor: 1000}}
	_, err := CalculateShippingForSeller([]PricedItem{{UnitPriceMinor: 100, Quantity: 1, Currency: "TRY"}}, rules, true, "TRY")
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, re.Code)
}

func TestCalculateShippingTotalGroupsByShop(t *testing.T) {
	items := []PricedItem{
		{ShopID: 1, UnitPriceMinor: 100, Quantity: 1, Currency: "TRY"},
		{ShopID: 2, UnitPriceMinor: 100, Quantity: 1, Currency: "TRY"},
		{ShopID: 1, UnitPriceMinor: 100, Quantity: 1, Currency: "TRY"},
	}
	rulesByShop := map[uint64]ShippingRules{
		1: {Domestic: ShippingRate{BasePriceMinor: 1000, AdditionalItemMinor: i64(300)}},
		2: {Domestic: ShippingRate{BasePriceMinor: 700}},
	}
	got, err := CalculateShippingTotal(items, rulesByShop, false, "TRY")
	require.NoError(t, err)
	// Shop 1: 1000 + 300 for its second unit. Shop 2: 700.
	assert.Equal(t, int64(1300+700), got.AmountMinor)
}

func TestCalculateOrderTotalsGrandTotalFloor(t *testing.T) {
	items := []PricedItem{{UnitPriceMinor: 1000, Quantity: 1, Currency: "TRY"}}
	shipping := ZeroMoney("TRY")
	discount, _ := NewMoney(99999, "TRY")

	totals, err := CalculateOrderTotals(items, shipping, discount, "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.GrandTotal.AmountMinor, "discount beyond order value floors at zero")
}

func TestCheckoutScenarioSingleShop(t *testing.T) {
	// Two items from one shop: 10000x1 and 5000x2, shipping base 2000,
	// additional 500, free above 30000.
	items := []PricedItem{
		{ShopID: 7, UnitPriceMinor: 10000, Quantity: 1, Currency: "TRY"},
		{ShopID: 7, UnitPriceMinor: 5000, Quantity: 2, Currency: "TRY"},
	}
	rulesByShop := map[uint64]ShippingRules{
		7: {Domestic: ShippingRate{BasePriceMinor: 2000, AdditionalItemMinor: i64(500), FreeAboveMinor: i64(30000)}},
	}

	shipping, err := CalculateShippingTotal(items, rulesByShop, false, "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), shipping.AmountMinor)

	totals, err := CalculateOrderTotals(items, shipping, ZeroMoney("TRY"), "TRY")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), totals.Subtotal.AmountMinor)
	assert.Equal(t, int64(23000), totals.GrandTotal.AmountMinor)
}

func TestEffectivePriceAndStock(t *testing.T) {
	assert.Equal(t, int64(900), EffectivePrice(1000, i64(900)))
	assert.Equal(t, int64(1000), EffectivePrice(1000, nil))
	// An explicit zero override wins over the base value.
	assert.Equal(t, int64(0), EffectivePrice(1000, i64(0)))

	assert.Equal(t, 3, EffectiveStock(10, iptr(3)))
	assert.Equal(t, 10, EffectiveStock(10, nil))
	assert.Equal(t, 0, EffectiveStock(10, iptr(0)))
}

func TestNewOrderItemSnapshotCopiesPersonalization(t *testing.T) {
	now := time.Now()
	input := SnapshotInput{
		Title:           "Ahşap kutu",
		ListingType:     ListingTypePhysical,
		UnitPriceMinor:  4200,
		Currency:        "TRY",
		Personalization: map[string]string{"engraving": "Elif"},
		ReturnPolicy:    ReturnsAccepted,
	}
	snap := NewOrderItemSnapshot(input, now)

	input.Personalization["engraving"] = "changed later"
	assert.Equal(t, "Elif", snap.Personalization["engraving"])
	assert.Equal(t, now, snap.CapturedAt)
}

func TestSnapshotDigitalDefaultsToNoReturns(t *testing.T) {
	snap := NewOrderItemSnapshot(SnapshotInput{
		Title:       "Desen PDF",
		ListingType: ListingTypeDigital,
		Currency:    "TRY",
	}, time.Now())
	assert.Equal(t, ReturnsNone, snap.ReturnPolicy)
	assert.Equal(t, 0, snap.ReturnWindowDays)
}
