package model

import (
	"time"

	"github.com/atolyem/marketplace-backend/internal/rules"
)

// DigitalDelivery tracks download access for one digital order item. Created
// at order placement; INSTANT items flip to DELIVERED when payment settles,
// MANUAL items when the seller uploads their files.
type DigitalDelivery struct {
	ID            uint64               `gorm:"primaryKey;autoIncrement"`
	OrderItemID   uint64               `gorm:"column:order_item_id;not null;uniqueIndex:uk_digital_deliveries_order_item"`
	BuyerUID      string               `gorm:"column:buyer_uid;size:128;index;not null"`
	SellerUID     string               `gorm:"column:seller_uid;size:128;index;not null"`
	Mode          rules.DeliveryMode   `gorm:"column:mode;size:16;not null"`
	Status        rules.DeliveryStatus `gorm:"column:status;size:16;not null"`
	DownloadCount int                  `gorm:"column:download_count;not null;default:0"`
	MaxDownloads  int                  `gorm:"column:max_downloads;not null"`
	ExpiresAt     *time.Time           `gorm:"column:expires_at"`
	ObjectPath    string               `gorm:"column:object_path;size:512"`
	DeliveredAt   *time.Time           `gorm:"column:delivered_at"`
	FirstDownload *time.Time           `gorm:"column:first_downloaded_at"`
	CreatedAt     time.Time            `gorm:"autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime"`
}

func (DigitalDelivery) TableName() string {
	return "digital_deliveries"
}

// DownloadContext projects the row plus order payment state into the rule
// package's input shape.
func (d *DigitalDelivery) DownloadContext(paymentCompleted bool) rules.DownloadContext {
	return rules.DownloadContext{
		OrderItemID:      d.OrderItemID,
		BuyerUserID:      d.BuyerUID,
		SellerUserID:     d.SellerUID,
		DeliveryStatus:   d.Status,
		DeliveryMode:     d.Mode,
		DownloadCount:    d.DownloadCount,
		MaxDownloads:     d.MaxDownloads,
		ExpiresAt:        d.ExpiresAt,
		PaymentCompleted: paymentCompleted,
	}
}
