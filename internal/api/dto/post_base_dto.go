package dto

// PostBaseDTO 帖子 - 新增或修改
// Tags 为 nil 表示未提供，修改时保留原有标签；空数组表示清空
type PostBaseDTO struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	ImageURL *string   `json:"image_url" binding:"omitempty,max=2048"`
	Tags     *[]string `json:"tags"`
}

// PostListDTO 帖子列表查询参数
type PostListDTO struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=10"`
	Sort  string `form:"sort,default=latest"`
	Tag   string `form:"tag"`
}

// TrendingQueryDTO 热门查询参数
type TrendingQueryDTO struct {
	Days  int `form:"days,default=7"`
	Limit int `form:"limit,default=10"`
}
