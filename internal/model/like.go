package model

import (
	"time"
)

// Like (user_id, post_id) 唯一，重复点赞由唯一索引拒绝
type Like struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uq_like_user_post" json:"userId"`
	PostID    uint64    `gorm:"not null;uniqueIndex:uq_like_user_post;index:idx_like_post_id" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
