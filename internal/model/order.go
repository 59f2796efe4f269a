package model

import (
	"time"

	"github.com/atolyem/marketplace-backend/internal/rules"
)

type Order struct {
	ID                    uint64            `gorm:"primaryKey;autoIncrement"`
	Ref                   string            `gorm:"column:ref;size:36;not null;uniqueIndex:uk_orders_ref"`
	BuyerUID              string            `gorm:"column:buyer_uid;size:128;index;not null"`
	Status                rules.OrderStatus `gorm:"column:status;size:24;not null"`
	Currency              string            `gorm:"size:8;not null"`
	SubtotalMinor         int64             `gorm:"column:subtotal_minor;not null"`
	ShippingMinor         int64             `gorm:"column:shipping_minor;not null"`
	DiscountMinor         int64             `gorm:"column:discount_minor;not null"`
	GrandTotalMinor       int64             `gorm:"column:grand_total_minor;not null"`
	International         bool              `gorm:"column:international;not null;default:false"`
	IdempotencyKey        string            `gorm:"column:idempotency_key;size:64;not null;uniqueIndex:uk_orders_idempotency_key"`
	PaidAt                *time.Time        `gorm:"column:paid_at"`
	ShippedAt             *time.Time        `gorm:"column:shipped_at"`
	DeliveredAt           *time.Time        `gorm:"column:delivered_at"`
	EstimatedDeliveryDate *time.Time        `gorm:"column:estimated_delivery_date"`
	CreatedAt             time.Time         `gorm:"autoCreateTime"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem carries the frozen purchase record. The snapshot columns are
// written once at order placement and never updated; listing edits after the
// sale do not reach them.
type OrderItem struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	OrderID   uint64  `gorm:"column:order_id;index;not null"`
	ListingID uint64  `gorm:"column:listing_id;index;not null"`
	VariantID *uint64 `gorm:"column:variant_id"`
	ShopID    uint64  `gorm:"column:shop_id;index;not null"`
	SellerUID string  `gorm:"column:seller_uid;size:128;index;not null"`
	Quantity  int     `gorm:"not null"`

	TitleSnapshot           string             `gorm:"column:title_snapshot;size:140;not null"`
	ListingTypeSnapshot     rules.ListingType  `gorm:"column:listing_type_snapshot;size:16;not null"`
	UnitPriceMinor          int64              `gorm:"column:unit_price_minor;not null"`
	Currency                string             `gorm:"size:8;not null"`
	VariantLabelSnapshot    string             `gorm:"column:variant_label_snapshot;size:120"`
	PersonalizationSnapshot string             `gorm:"column:personalization_snapshot;type:text"`
	ProcessingDaysMin       int                `gorm:"column:processing_days_min"`
	ProcessingDaysMax       int                `gorm:"column:processing_days_max"`
	ReturnPolicySnapshot    rules.ReturnPolicy `gorm:"column:return_policy_snapshot;size:24"`
	ReturnWindowDays        int                `gorm:"column:return_window_days"`
	SnapshotAt              time.Time          `gorm:"column:snapshot_at;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
