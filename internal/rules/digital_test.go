package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliverable() DownloadContext {
	return DownloadContext{
		OrderItemID:      1,
		BuyerUserID:      "buyer",
		SellerUserID:     "seller",
		DeliveryStatus:   DeliveryDelivered,
		DeliveryMode:     DeliveryInstant,
		DownloadCount:    0,
		MaxDownloads:     5,
		PaymentCompleted: true,
	}
}

func TestAssertCanDownload(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		mutate   func(dc DownloadContext) DownloadContext
		user     string
		wantCode Code
	}{
		{"happy path", func(dc DownloadContext) DownloadContext { return dc }, "buyer", ""},
		{"wrong user", func(dc DownloadContext) DownloadContext { return dc }, "stranger", CodeForbidden},
		{"payment pending", func(dc DownloadContext) DownloadContext { dc.PaymentCompleted = false; return dc }, "buyer", CodeOrderNotEligible},
		{"instant not settled", func(dc DownloadContext) DownloadContext { dc.DeliveryStatus = DeliveryPending; return dc }, "buyer", CodeOrderNotEligible},
		{"manual not delivered", func(dc DownloadContext) DownloadContext {
			dc.DeliveryStatus = DeliveryPending
			dc.DeliveryMode = DeliveryManual
			return dc
		}, "buyer", CodeOrderNotEligible},
		{"quota exhausted", func(dc DownloadContext) DownloadContext { dc.DownloadCount = 5; return dc }, "buyer", CodeDownloadLimit},
		{"expired", func(dc DownloadContext) DownloadContext { dc.ExpiresAt = &past; return dc }, "buyer", CodeDownloadExpired},
		{"not yet expired", func(dc DownloadContext) DownloadContext { dc.ExpiresAt = &future; return dc }, "buyer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertCanDownload(tt.mutate(deliverable()), tt.user, now)
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

func TestDownloadLimitWinsOverExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	dc := deliverable()
	dc.DownloadCount = dc.MaxDownloads
	dc.ExpiresAt = &past

	err := AssertCanDownload(dc, "buyer", now)
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeDownloadLimit, re.Code)
}

func TestManualDeliveryMessageDiffersFromInstant(t *testing.T) {
	now := time.Now()

	manual := deliverable()
	manual.DeliveryStatus = DeliveryPending
	manual.DeliveryMode = DeliveryManual
	manualErr, _ := AsRuleError(AssertCanDownload(manual, "buyer", now))

	instant := deliverable()
	instant.DeliveryStatus = DeliveryPending
	instantErr, _ := AsRuleError(AssertCanDownload(instant, "buyer", now))

	require.NotNil(t, manualErr)
	require.NotNil(t, instantErr)
	assert.NotEqual(t, manualErr.Message, instantErr.Message)
}

func TestAssertCanDeliverDigital(t *testing.T) {
	pendingManual := deliverable()
	pendingManual.DeliveryStatus = DeliveryPending
	pendingManual.DeliveryMode = DeliveryManual

	tests := []struct {
		name     string
		mutate   func(dc DownloadContext) DownloadContext
		actor    string
		wantCode Code
	}{
		{"seller delivers", func(dc DownloadContext) DownloadContext { return dc }, "seller", ""},
		{"buyer cannot deliver", func(dc DownloadContext) DownloadContext { return dc }, "buyer", CodeForbidden},
		{"instant mode rejected", func(dc DownloadContext) DownloadContext { dc.DeliveryMode = DeliveryInstant; return dc }, "seller", CodeValidation},
		{"re-delivery rejected", func(dc DownloadContext) DownloadContext { dc.DeliveryStatus = DeliveryDelivered; return dc }, "seller", CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertCanDeliverDigital(tt.mutate(pendingManual), tt.actor)
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

func TestDownloadExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expires := DownloadExpiry(now, 30)
	require.NotNil(t, expires)
	assert.Equal(t, now.AddDate(0, 0, 30), *expires)

	assert.Nil(t, DownloadExpiry(now, 0))
	assert.Nil(t, DownloadExpiry(now, -1))
}
