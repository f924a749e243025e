package model

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint64         `gorm:"primaryKey"`
	UserID    uint64         `gorm:"not null;index:idx_post_user_id" json:"user_id"`
	Title     string         `gorm:"type:varchar(50);not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ImageURL  *string        `gorm:"type:varchar(2048)" json:"image_url"`
	ViewCount int64          `gorm:"not null;default:0" json:"view_count"`
	CreatedAt time.Time      `gorm:"index:idx_post_created_at" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index:idx_post_deleted_at" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}
