package rules

import "fmt"

// The stock checks here assume the caller re-fetched current stock inside
// the same row-locked transaction that will apply the decrement. Run outside
// that boundary they only produce advisory results.

// StockCheck is a single availability question at checkout time.
type StockCheck struct {
	ListingID         uint64
	CurrentStock      int
	RequestedQuantity int
	ListingStatus     ListingStatus
}

func AssertSufficientStock(c StockCheck) error {
	// A listing can be archived or removed between cart-add and checkout.
	if c.ListingStatus != ListingPublished {
		return newError(CodeListingNotAvailable, "this listing is no longer available")
	}
	if c.RequestedQuantity < 1 {
		return newError(CodeValidation, "quantity must be at least 1").
			withDetail("requestedQuantity", c.RequestedQuantity)
	}
	if c.CurrentStock < c.RequestedQuantity {
		return newError(CodeInsufficientStock,
			fmt.Sprintf("only %d left in stock", c.CurrentStock)).
			withDetail("availableStock", c.CurrentStock).
			withDetail("requestedQuantity", c.RequestedQuantity)
	}
	return nil
}

// CalculateStockDecrement returns the stock level after removing by units.
// ok is false when stock is insufficient; the result is never negative.
func CalculateStockDecrement(current, by int) (int, bool) {
	if by < 0 || current < by {
		return 0, false
	}
	return current - by, true
}

// CheckoutItem is a cart row re-fetched at checkout time. Earlier reads of
// stock or status must not be trusted.
type CheckoutItem struct {
	CartItemID        uint64
	ListingID         uint64
	VariantID         *uint64
	Quantity          int
	CurrentStock      int
	ListingStatus     ListingStatus
	ListingCompliance ComplianceStatus
	SellerUserID      string
}

// CartItemValidation reports every problem found with one cart item.
type CartItemValidation struct {
	CartItemID uint64
	ListingID  uint64
	OK         bool
	Errors     []*Error
}

// ValidateCartItemsForCheckout runs the self-purchase, availability and
// stock checks for every item and reports all failures together. The
// checkout UI shows every problem at once, so this never stops at the first
// bad item.
func ValidateCartItemsForCheckout(items []CheckoutItem, buyerUserID string) []CartItemValidation {
	results := make([]CartItemValidation, 0, len(items))
	for _, it := range items {
		v := CartItemValidation{CartItemID: it.CartItemID, ListingID: it.ListingID, OK: true}
		if err := AssertNotSelfPurchase(it.SellerUserID, buyerUserID); err != nil {
			v.appendError(err)
		}
		if err := AssertListingPurchasable(ListingView{
			Status:     it.ListingStatus,
			Compliance: it.ListingCompliance,
		}); err != nil {
			v.appendError(err)
		}
		if err := AssertSufficientStock(StockCheck{
			ListingID:         it.ListingID,
			CurrentStock:      it.CurrentStock,
			RequestedQuantity: it.Quantity,
			ListingStatus:     it.ListingStatus,
		}); err != nil {
			v.appendError(err)
		}
		results = append(results, v)
	}
	return results
}

func (v *CartItemValidation) appendError(err error) {
	re, ok := AsRuleError(err)
	if !ok {
		re = newError(CodeValidation, err.Error())
	}
	// Purchasable and stock checks both flag a non-published listing; keep
	// one copy per code.
	for _, existing := range v.Errors {
		if existing.Code == re.Code {
			return
		}
	}
	v.OK = false
	v.Errors = append(v.Errors, re)
}
