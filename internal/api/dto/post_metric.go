package dto

// PostMetricQueryDTO 指标查询参数
type PostMetricQueryDTO struct {
	Days int `form:"days,default=7" binding:"oneof=7 30"`
}

// PostMetricDTO 帖子指标趋势点
type PostMetricDTO struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// PostTrendDTO 帖子趋势返回包装
type PostTrendDTO struct {
	PostID   uint64           `json:"post_id"`
	Days     int              `json:"days"` // 7 或 30
	Likes    []*PostMetricDTO `json:"likes"`
	Comments []*PostMetricDTO `json:"comments"`
	Views    []*PostMetricDTO `json:"views"`
}
