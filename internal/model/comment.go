package model

import (
	"time"

	"gorm.io/gorm"
)

// Comment 评论的增删改由评论服务负责，这里只用于计数和级联删除
type Comment struct {
	ID        uint64         `gorm:"primaryKey"`
	PostID    uint64         `gorm:"not null;index:idx_comment_post_id" json:"postId"`
	UserID    uint64         `gorm:"not null" json:"userId"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index:idx_comment_deleted_at" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
