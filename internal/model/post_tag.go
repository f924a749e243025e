package model

import "time"

type PostTag struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;uniqueIndex:uq_post_tag" json:"postId"`
	TagID     uint64    `gorm:"not null;uniqueIndex:uq_post_tag;index:idx_post_tag_tag_id" json:"tagId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
