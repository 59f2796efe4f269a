package rules

import "time"

// ReviewContext carries the timestamps and order state review eligibility is
// derived from. Eligibility is recomputed on every call; nothing stores an
// "eligible" flag.
type ReviewContext struct {
	OrderItemID           uint64
	BuyerUserID           string
	ListingType           ListingType
	OrderStatus           OrderStatus
	HasReview             bool
	ActualDeliveredAt     *time.Time
	EstimatedDeliveryDate *time.Time
	FirstDownloadedAt     *time.Time
	OrderPaidAt           *time.Time
	OrderCreatedAt        time.Time
}

// ReviewWindowStart resolves when the review window opened. ok is false when
// no window exists yet; reason explains why.
//
// Digital items open at first download. Physical items open at the recorded
// delivery time, or once the estimated delivery date has passed. When an
// order is marked DELIVERED with neither date recorded, a short grace period
// after payment stands in for the missing timestamp; that fallback is a
// policy choice, not a business requirement.
func ReviewWindowStart(rc ReviewContext, cfg Config, now time.Time) (time.Time, bool, string) {
	if rc.ListingType == ListingTypeDigital {
		if rc.FirstDownloadedAt == nil {
			return time.Time{}, false, "download your files before leaving a review"
		}
		return *rc.FirstDownloadedAt, true, ""
	}

	if rc.ActualDeliveredAt != nil {
		return *rc.ActualDeliveredAt, true, ""
	}
	if rc.EstimatedDeliveryDate != nil {
		if now.Before(*rc.EstimatedDeliveryDate) {
			return time.Time{}, false, "your order has not been delivered yet"
		}
		return *rc.EstimatedDeliveryDate, true, ""
	}
	if rc.OrderStatus == OrderDelivered {
		anchor := rc.OrderCreatedAt
		if rc.OrderPaidAt != nil {
			anchor = *rc.OrderPaidAt
		}
		return anchor.AddDate(0, 0, cfg.DeliveredFallbackGraceDays), true, ""
	}
	return time.Time{}, false, "your order has not been delivered yet"
}

// AssertCanReview decides whether requestingUserID may review the order item
// now. The rejection message carries the computed reason so the client can
// show it verbatim.
func AssertCanReview(rc ReviewContext, requestingUserID string, cfg Config, now time.Time) error {
	if rc.BuyerUserID != requestingUserID {
		return newError(CodeForbidden, "only the buyer can review this item")
	}
	if rc.HasReview {
		return newError(CodeConflict, "you have already reviewed this item")
	}
	if rc.OrderStatus == OrderPendingPayment || rc.OrderStatus == OrderCancelled {
		return newError(CodeOrderNotEligible, "this order is not eligible for a review")
	}
	start, ok, reason := ReviewWindowStart(rc, cfg, now)
	if !ok {
		return newError(CodeOrderNotEligible, reason)
	}
	if now.Before(start) {
		return newError(CodeOrderNotEligible, "the review window has not opened yet")
	}
	if now.After(start.AddDate(0, 0, cfg.ReviewWindowDays)) {
		return newError(CodeOrderNotEligible, "the review window has closed")
	}
	return nil
}
