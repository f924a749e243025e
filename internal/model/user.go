package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              uint64  `gorm:"primaryKey"`
	Email           string  `gorm:"type:varchar(100);not null;uniqueIndex:uq_user_email"`
	Nickname        string  `gorm:"type:varchar(20);not null;uniqueIndex:uq_user_nickname"`
	ProfileImageURL *string `gorm:"type:varchar(2048)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index:idx_user_deleted_at"`
}

func (User) TableName() string {
	return "users"
}
