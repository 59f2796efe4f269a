package model

import "time"

type Favorite struct {
	UserUID   string    `gorm:"column:user_uid;size:128;not null;primaryKey"`
	ListingID uint64    `gorm:"column:listing_id;not null;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type Follow struct {
	UserUID   string    `gorm:"column:user_uid;size:128;not null;primaryKey"`
	ShopID    uint64    `gorm:"column:shop_id;not null;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Follow) TableName() string {
	return "follows"
}
