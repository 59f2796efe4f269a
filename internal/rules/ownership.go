package rules

// Viewer identifies the user an operation runs on behalf of.
type Viewer struct {
	UserID  string
	IsAdmin bool
}

// AssertNotSelfPurchase rejects a seller buying from their own shop. Called
// at cart-add, direct-buy and checkout alike; the repeated checks are
// intentional.
func AssertNotSelfPurchase(sellerUserID, buyerUserID string) error {
	if sellerUserID != "" && sellerUserID == buyerUserID {
		return newError(CodeSelfPurchase, "you cannot purchase your own listing")
	}
	return nil
}

func AssertListingOwnership(sellerUserID string, actor Viewer) error {
	if actor.IsAdmin {
		return nil
	}
	if sellerUserID != actor.UserID {
		return newError(CodeForbidden, "only the listing owner can do this")
	}
	return nil
}

func AssertShopOwnership(ownerUserID string, actor Viewer) error {
	if actor.IsAdmin {
		return nil
	}
	if ownerUserID != actor.UserID {
		return newError(CodeForbidden, "only the shop owner can do this")
	}
	return nil
}

func AssertNotSelfFavorite(sellerUserID, userID string) error {
	if sellerUserID != "" && sellerUserID == userID {
		return newError(CodeForbidden, "you cannot favorite your own listing")
	}
	return nil
}

func AssertNotSelfFollow(shopOwnerUserID, userID string) error {
	if shopOwnerUserID != "" && shopOwnerUserID == userID {
		return newError(CodeForbidden, "you cannot follow your own shop")
	}
	return nil
}
