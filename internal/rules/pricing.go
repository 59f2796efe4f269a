package rules

import "time"

// PricedItem is one cart line after its effective unit price has been
// resolved (variant override applied).
type PricedItem struct {
	CartItemID     uint64
	ShopID         uint64
	UnitPriceMinor int64
	Quantity       int
	Currency       string
}

func CalculateLineItemTotal(item PricedItem) (Money, error) {
	unit, err := NewMoney(item.UnitPriceMinor, item.Currency)
	if err != nil {
		return Money{}, err
	}
	return unit.MulQty(item.Quantity)
}

// CalculateSubtotal sums line totals; an empty cart yields zero in the given
// currency.
func CalculateSubtotal(items []PricedItem, currency string) (Money, error) {
	subtotal := ZeroMoney(currency)
	for _, it := range items {
		line, err := CalculateLineItemTotal(it)
		if err != nil {
			return Money{}, err
		}
		subtotal, err = subtotal.Add(line)
		if err != nil {
			return Money{}, err
		}
	}
	return subtotal, nil
}

// ShippingRate is one zone's pricing for a shop. The first unit in an order
// pays BasePriceMinor; every further unit pays AdditionalItemMinor (0 when
// unset). Orders at or above FreeAboveMinor ship free.
type ShippingRate struct {
	BasePriceMinor      int64
	FreeAboveMinor      *int64
	AdditionalItemMinor *int64
}

// ShippingRules is a shop's full shipping configuration. International is
// nil when the shop only ships domestically.
type ShippingRules struct {
	Domestic      ShippingRate
	International *ShippingRate
}

// CalculateShippingForSeller prices shipping for the items of one shop.
func CalculateShippingForSeller(items []PricedItem, rules ShippingRules, international bool, currency string) (Money, error) {
	if len(items) == 0 {
		return ZeroMoney(currency), nil
	}
	rate := rules.Domestic
	if international {
		if rules.International == nil {
			return Money{}, newError(CodeValidation, "this shop does not ship internationally")
		}
		rate = *rules.International
	}

	sellerSubtotal, err := CalculateSubtotal(items, currency)
	if err != nil {
		return Money{}, err
	}
	if rate.FreeAboveMinor != nil && sellerSubtotal.AmountMinor >= *rate.FreeAboveMinor {
		return ZeroMoney(currency), nil
	}

	units := 0
	for _, it := range items {
		units += it.Quantity
	}
	if units < 1 {
		return ZeroMoney(currency), nil
	}
	perExtra := int64(0)
	if rate.AdditionalItemMinor != nil {
		perExtra = *rate.AdditionalItemMinor
	}
	return NewMoney(rate.BasePriceMinor+perExtra*int64(units-1), currency)
}

// CalculateShippingTotal groups the cart by shop, applies each shop's own
// rules and sums the results. A missing rule set for a shop is a
// configuration error surfaced to the caller.
func CalculateShippingTotal(items []PricedItem, rulesByShop map[uint64]ShippingRules, international bool, currency string) (Money, error) {
	byShop := map[uint64][]PricedItem{}
	order := []uint64{}
	for _, it := range items {
		if _, seen := byShop[it.ShopID]; !seen {
			order = append(order, it.ShopID)
		}
		byShop[it.ShopID] = append(byShop[it.ShopID], it)
	}

	total := ZeroMoney(currency)
	for _, shopID := range order {
		rules, ok := rulesByShop[shopID]
		if !ok {
			return Money{}, newError(CodeValidation, "shop has no shipping rules configured").
				withDetail("shopId", shopID)
		}
		shipping, err := CalculateShippingForSeller(byShop[shopID], rules, international, currency)
		if err != nil {
			return Money{}, err
		}
		total, err = total.Add(shipping)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// OrderTotals is the server-computed money summary persisted with an order.
type OrderTotals struct {
	Subtotal   Money
	Shipping   Money
	Discount   Money
	GrandTotal Money
}

// CalculateOrderTotals combines subtotal, shipping and discount. The grand
// total is floored at zero: a discount larger than the order never produces
// a negative charge.
func CalculateOrderTotals(items []PricedItem, shipping, discount Money, currency string) (OrderTotals, error) {
	subtotal, err := CalculateSubtotal(items, currency)
	if err != nil {
		return OrderTotals{}, err
	}
	if shipping.Currency != currency || discount.Currency != currency {
		return OrderTotals{}, newError(CodeCurrencyMismatch, "order totals must share one currency")
	}
	grand := subtotal.AmountMinor + shipping.AmountMinor - discount.AmountMinor
	if grand < 0 {
		grand = 0
	}
	return OrderTotals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Discount:   discount,
		GrandTotal: Money{AmountMinor: grand, Currency: currency},
	}, nil
}

// EffectivePrice resolves a variant price override over the listing base.
// A set override always wins, including an explicit zero.
func EffectivePrice(baseMinor int64, variantMinor *int64) int64 {
	if variantMinor != nil {
		return *variantMinor
	}
	return baseMinor
}

// EffectiveStock resolves a variant quantity override over the listing base.
func EffectiveStock(base int, variant *int) int {
	if variant != nil {
		return *variant
	}
	return base
}

// SnapshotInput is everything about the listing, variant and buyer input
// that must be frozen at the moment of purchase.
type SnapshotInput struct {
	Title             string
	ListingType       ListingType
	UnitPriceMinor    int64
	Currency          string
	VariantLabel      string
	Personalization   map[string]string
	ProcessingDaysMin int
	ProcessingDaysMax int
	ReturnPolicy      ReturnPolicy
	ReturnWindowDays  int
}

// OrderItemSnapshot is the immutable record of what was purchased and at
// what price. Later edits to the listing never change it.
type OrderItemSnapshot struct {
	Title             string
	ListingType       ListingType
	UnitPriceMinor    int64
	Currency          string
	VariantLabel      string
	Personalization   map[string]string
	ProcessingDaysMin int
	ProcessingDaysMax int
	ReturnPolicy      ReturnPolicy
	ReturnWindowDays  int
	CapturedAt        time.Time
}

// NewOrderItemSnapshot freezes the purchase record. The personalization map
// is copied so the snapshot cannot alias caller state. Digital goods default
// to no returns unless the seller configured otherwise.
func NewOrderItemSnapshot(in SnapshotInput, now time.Time) OrderItemSnapshot {
	personalization := make(map[string]string, len(in.Personalization))
	for k, v := range in.Personalization {
		personalization[k] = v
	}
	policy := in.ReturnPolicy
	windowDays := in.ReturnWindowDays
	if in.ListingType == ListingTypeDigital && policy == "" {
		policy = ReturnsNone
		windowDays = 0
	}
	return OrderItemSnapshot{
		Title:             in.Title,
		ListingType:       in.ListingType,
		UnitPriceMinor:    in.UnitPriceMinor,
		Currency:          in.Currency,
		VariantLabel:      in.VariantLabel,
		Personalization:   personalization,
		ProcessingDaysMin: in.ProcessingDaysMin,
		ProcessingDaysMax: in.ProcessingDaysMax,
		ReturnPolicy:      policy,
		ReturnWindowDays:  windowDays,
		CapturedAt:        now,
	}
}
