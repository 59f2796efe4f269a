package model

import "time"

type Shop struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	OwnerUID  string    `gorm:"column:owner_uid;size:128;index;not null"`
	Name      string    `gorm:"size:120;not null"`
	Slug      string    `gorm:"size:120;not null;uniqueIndex:uk_shops_slug"`
	Currency  string    `gorm:"size:8;not null;default:TRY"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Shop) TableName() string {
	return "shops"
}

type ShippingZone string

const (
	ShippingZoneDomestic      ShippingZone = "domestic"
	ShippingZoneInternational ShippingZone = "international"
)

// ShippingRule is one zone's shipping pricing for a shop. Every shop has a
// domestic row; the international row is optional.
type ShippingRule struct {
	ID                  uint64       `gorm:"primaryKey;autoIncrement"`
	ShopID              uint64       `gorm:"column:shop_id;not null;uniqueIndex:uk_shipping_rules_shop_zone"`
	Zone                ShippingZone `gorm:"column:zone;size:16;not null;uniqueIndex:uk_shipping_rules_shop_zone"`
	BasePriceMinor      int64        `gorm:"column:base_price_minor;not null"`
	FreeAboveMinor      *int64       `gorm:"column:free_above_minor"`
	AdditionalItemMinor *int64       `gorm:"column:additional_item_minor"`
	CreatedAt           time.Time    `gorm:"autoCreateTime"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime"`
}

func (ShippingRule) TableName() string {
	return "shipping_rules"
}
