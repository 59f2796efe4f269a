package rules

import (
	"strings"
	"unicode/utf8"
)

// ListingView is the plain-field projection of a listing that visibility and
// publish checks need. Callers map their persisted entity into it; this
// package never sees ORM types.
type ListingView struct {
	SellerUserID         string
	Status               ListingStatus
	Compliance           ComplianceStatus
	Type                 ListingType
	DeliveryMode         DeliveryMode
	IsPrivate            bool
	PrivateAccessUserIDs []string
	Title                string
	BasePriceMinor       int64
	BaseQuantity         int
	HasDigitalAsset      bool
}

// AssertCanViewListing decides whether viewer may see the listing at all.
// Hidden listings fail with NOT_FOUND, never FORBIDDEN: a private or
// unpublished listing must not reveal its existence to outsiders.
func AssertCanViewListing(l ListingView, viewer Viewer) error {
	if viewer.IsAdmin || viewer.UserID == l.SellerUserID {
		return nil
	}
	if l.IsPrivate {
		for _, id := range l.PrivateAccessUserIDs {
			if id == viewer.UserID && id != "" {
				return nil
			}
		}
		return newError(CodeNotFound, "listing not found")
	}
	if l.Status != ListingPublished {
		return newError(CodeNotFound, "listing not found")
	}
	return nil
}

// AssertListingPurchasable checks that a listing the buyer already knows
// about can actually be bought. Unlike the view check this reports a
// distinct code: the product page was visible, so existence is not a secret.
func AssertListingPurchasable(l ListingView) error {
	if l.Status != ListingPublished {
		return newError(CodeListingNotAvailable, "this listing is not available for purchase")
	}
	if l.Compliance == ComplianceFlagged || l.Compliance == ComplianceRemoved {
		return newError(CodeListingNotAvailable, "this listing is not available for purchase")
	}
	return nil
}

// AssertCanPublish is the single gate through which a draft becomes
// purchasable.
func AssertCanPublish(l ListingView) error {
	switch l.Status {
	case ListingPublished:
		return newError(CodeConflict, "listing is already published")
	case ListingRemoved:
		return newError(CodeConflict, "a removed listing cannot be published")
	}
	if utf8.RuneCountInString(strings.TrimSpace(l.Title)) < 3 {
		return newError(CodeValidation, "title must be at least 3 characters")
	}
	if l.BasePriceMinor <= 0 {
		return newError(CodeValidation, "price must be greater than zero")
	}
	if l.BaseQuantity < 1 {
		return newError(CodeValidation, "stock must be at least 1")
	}
	// An instantly delivered digital listing without its file would leave
	// every buyer stuck at "not available yet", so the file comes first.
	if l.Type == ListingTypeDigital && l.DeliveryMode == DeliveryInstant && !l.HasDigitalAsset {
		return newError(CodeValidation, "upload the digital file before publishing")
	}
	return nil
}
