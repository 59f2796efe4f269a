package model

import "time"

type User struct {
	UID         string    `gorm:"primaryKey;size:128"`
	DisplayName string    `gorm:"size:120"`
	IsAdmin     bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
