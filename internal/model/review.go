package model

import "time"

type Review struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	OrderItemID uint64    `gorm:"column:order_item_id;not null;uniqueIndex:uk_reviews_order_item"`
	ListingID   uint64    `gorm:"column:listing_id;index;not null"`
	BuyerUID    string    `gorm:"column:buyer_uid;size:128;index;not null"`
	Rating      int       `gorm:"not null"`
	Body        string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
