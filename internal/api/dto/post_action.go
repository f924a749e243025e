package dto

// LikeStateDTO 点赞/取消点赞后的最新点赞数
type LikeStateDTO struct {
	PostID     uint64 `json:"post_id"`
	LikesCount int64  `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
}
