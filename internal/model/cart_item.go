package model

import "time"

// CartItem stores the buyer's intent only. Price, stock and listing status
// are always re-read at checkout; nothing here is trusted at order time
// except listing, variant and quantity.
type CartItem struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement"`
	BuyerUID        string    `gorm:"column:buyer_uid;size:128;index;not null"`
	ListingID       uint64    `gorm:"column:listing_id;index;not null"`
	VariantID       *uint64   `gorm:"column:variant_id"`
	Quantity        int       `gorm:"not null"`
	Personalization string    `gorm:"column:personalization;type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
