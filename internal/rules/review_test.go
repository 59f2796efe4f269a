package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

func TestReviewWindowEdgesDigital(t *testing.T) {
	cfg := DefaultConfig()
	downloaded := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	rc := ReviewContext{
		BuyerUserID:       "buyer",
		ListingType:       ListingTypeDigital,
		OrderStatus:       OrderPaid,
		FirstDownloadedAt: tp(downloaded),
	}

	atEdge := downloaded.AddDate(0, 0, 60)
	assert.NoError(t, AssertCanReview(rc, "buyer", cfg, atEdge), "day 60 is still inside the window")

	pastEdge := downloaded.AddDate(0, 0, 61)
	err := AssertCanReview(rc, "buyer", cfg, pastEdge)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeOrderNotEligible, re.Code)
	assert.Contains(t, re.Message, "closed")
}

func TestReviewDigitalRequiresDownload(t *testing.T) {
	rc := ReviewContext{
		BuyerUserID: "buyer",
		ListingType: ListingTypeDigital,
		OrderStatus: OrderPaid,
	}
	err := AssertCanReview(rc, "buyer", DefaultConfig(), time.Now())
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeOrderNotEligible, re.Code)
}

func TestReviewPhysicalStartResolution(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	delivered := now.AddDate(0, 0, -10)
	estimated := now.AddDate(0, 0, -5)
	created := now.AddDate(0, 0, -20)
	paid := now.AddDate(0, 0, -19)

	tests := []struct {
		name      string
		rc        ReviewContext
		wantStart time.Time
		wantOK    bool
	}{
		{
			"actual delivery wins",
			ReviewContext{ListingType: ListingTypePhysical, OrderStatus: OrderDelivered, ActualDeliveredAt: tp(delivered), EstimatedDeliveryDate: tp(estimated)},
			delivered, true,
		},
		{
			"estimated date once passed",
			ReviewContext{ListingType: ListingTypePhysical, OrderStatus: OrderShipped, EstimatedDeliveryDate: tp(estimated)},
			estimated, true,
		},
		{
			"estimated date still ahead",
			ReviewContext{ListingType: ListingTypePhysical, OrderStatus: OrderShipped, EstimatedDeliveryDate: tp(now.AddDate(0, 0, 3))},
			time.Time{}, false,
		},
		{
			"delivered with no dates falls back to grace after payment",
			ReviewContext{ListingType: ListingTypePhysical, OrderStatus: OrderDelivered, OrderPaidAt: tp(paid), OrderCreatedAt: created},
			paid.AddDate(0, 0, 7), true,
		},
		{
			"delivered with no dates and no payment time anchors on creation",
			ReviewContext{ListingType: ListingTypePhysical, OrderStatus: OrderDelivered, OrderCreatedAt: created},
			created.AddDate(0, 0, 7), true,
		},
		{
			"shipped with no dates not eligible",
			ReviewContext{ListingType: ListingTypePhysical, OrderStatus: OrderShipped, OrderCreatedAt: created},
			time.Time{}, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, ok, _ := ReviewWindowStart(tt.rc, cfg, now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start)
			}
		})
	}
}

func TestAssertCanReviewRejections(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	base := ReviewContext{
		BuyerUserID:       "buyer",
		ListingType:       ListingTypePhysical,
		OrderStatus:       OrderDelivered,
		ActualDeliveredAt: tp(now.AddDate(0, 0, -1)),
		OrderCreatedAt:    now.AddDate(0, 0, -10),
	}

	tests := []struct {
		name     string
		mutate   func(rc ReviewContext) ReviewContext
		user     string
		wantCode Code
	}{
		{"happy path", func(rc ReviewContext) ReviewContext { return rc }, "buyer", ""},
		{"not the buyer", func(rc ReviewContext) ReviewContext { return rc }, "stranger", CodeForbidden},
		{"already reviewed", func(rc ReviewContext) ReviewContext { rc.HasReview = true; return rc }, "buyer", CodeConflict},
		{"pending payment", func(rc ReviewContext) ReviewContext { rc.OrderStatus = OrderPendingPayment; return rc }, "buyer", CodeOrderNotEligible},
		{"cancelled", func(rc ReviewContext) ReviewContext { rc.OrderStatus = OrderCancelled; return rc }, "buyer", CodeOrderNotEligible},
		{"window not yet open", func(rc ReviewContext) ReviewContext {
			rc.ActualDeliveredAt = nil
			rc.OrderStatus = OrderDelivered
			rc.OrderPaidAt = tp(now.AddDate(0, 0, -2))
			return rc
		}, "buyer", CodeOrderNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertCanReview(tt.mutate(base), tt.user, cfg, now)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			re, ok := AsRuleError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, re.Code)
		})
	}
}
