package rules

import "time"

// DownloadContext is the state of one digital order item at the moment a
// download or delivery is attempted.
type DownloadContext struct {
	OrderItemID      uint64
	BuyerUserID      string
	SellerUserID     string
	DeliveryStatus   DeliveryStatus
	DeliveryMode     DeliveryMode
	DownloadCount    int
	MaxDownloads     int
	ExpiresAt        *time.Time
	PaymentCompleted bool
}

// AssertCanDownload gates access to a digital file. Check order matters:
// exhausting the download quota reports DIGITAL_DOWNLOAD_LIMIT even when
// the link has also expired.
func AssertCanDownload(dc DownloadContext, requestingUserID string, now time.Time) error {
	if dc.BuyerUserID != requestingUserID {
		return newError(CodeForbidden, "only the buyer can download this file")
	}
	if !dc.PaymentCompleted {
		return newError(CodeOrderNotEligible, "payment has not completed yet")
	}
	if dc.DeliveryStatus != DeliveryDelivered {
		if dc.DeliveryMode == DeliveryManual {
			return newError(CodeOrderNotEligible, "the seller has not delivered your files yet")
		}
		return newError(CodeOrderNotEligible, "your files are not available yet")
	}
	if dc.DownloadCount >= dc.MaxDownloads {
		return newError(CodeDownloadLimit, "download limit reached").
			withDetail("downloadCount", dc.DownloadCount).
			withDetail("maxDownloads", dc.MaxDownloads)
	}
	if dc.ExpiresAt != nil && now.After(*dc.ExpiresAt) {
		return newError(CodeDownloadExpired, "the download period for this item has ended").
			withDetail("expiresAt", dc.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// DownloadExpiry returns the absolute expiry for a digital delivery created
// at now. A window of zero or less means downloads never expire.
func DownloadExpiry(now time.Time, windowDays int) *time.Time {
	if windowDays <= 0 {
		return nil
	}
	expires := now.AddDate(0, 0, windowDays)
	return &expires
}

// AssertCanDeliverDigital gates the seller's manual-delivery action.
// Delivery is a one-shot PENDING to DELIVERED transition.
func AssertCanDeliverDigital(dc DownloadContext, actorUserID string) error {
	if dc.SellerUserID != actorUserID {
		return newError(CodeForbidden, "only the seller can deliver this item")
	}
	if dc.DeliveryMode != DeliveryManual {
		return newError(CodeValidation, "this item is delivered automatically")
	}
	if dc.DeliveryStatus == DeliveryDelivered {
		return newError(CodeConflict, "this item has already been delivered")
	}
	return nil
}
