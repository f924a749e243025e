package dto

import "time"

// AuthorDTO 帖子作者的展示信息
type AuthorDTO struct {
	ID              uint64  `json:"id"`
	Nickname        string  `json:"nickname"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// PostDTO 帖子，IsAuthor/IsLiked 相对当前访问者计算，匿名时均为 false
type PostDTO struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ImageURL      *string   `json:"image_url"`
	ViewCount     int64     `json:"view_count"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	Tags          []string  `json:"tags"`
	IsAuthor      bool      `json:"is_author"`
	IsLiked       bool      `json:"is_liked"`
	Score         *float64  `json:"score,omitempty"`
	Author        AuthorDTO `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostPageDTO 分页结果，Total 为过滤后的候选总数
type PostPageDTO struct {
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int64      `json:"total"`
	Items []*PostDTO `json:"items"`
}

// TagCountDTO 标签使用次数
type TagCountDTO struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TrendingDTO 时间窗口内的热门帖子与热门标签
type TrendingDTO struct {
	Days    int            `json:"days"`
	Since   time.Time      `json:"since"`
	Posts   []*PostDTO     `json:"posts"`
	TopTags []*TagCountDTO `json:"top_tags"`
}
