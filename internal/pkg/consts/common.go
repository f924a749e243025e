package consts

const (
	// ContextUserID gin.Context 中保存当前用户 ID 的 key，匿名访问时为 0
	ContextUserID = "user_id"
)

const (
	DefaultNickname = "unknown"
)

const (
	EventPostCreated = "post_created"
	EventPostUpdated = "post_updated"
	EventPostDeleted = "post_deleted"
	EventPostViewed  = "post_viewed"
	EventPostLiked   = "post_liked"
	EventPostUnliked = "post_unliked"
)
