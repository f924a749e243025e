package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// ListPosts 帖子列表，支持 latest/hot/discussed 与标签过滤
func (s *PostHandler) ListPosts(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)

	var query dto.PostListDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrInvalidPaging)
		return
	}

	page, err := s.postSvc.ListPosts(c.Request.Context(), userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "read_posts_success", page)
}

// Trending 最近 days 天的热门帖子与热门标签
func (s *PostHandler) Trending(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)

	var query dto.TrendingQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrInvalidTrendingParams)
		return
	}

	res, err := s.postSvc.Trending(c.Request.Context(), userID, query.Days, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "read_trending_success", res)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)
	postID, ok := util.ParseID(c.Param("post_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "read_detail_success", post)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)

	var req dto.PostBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "post_created", post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)
	postID, ok := util.ParseID(c.Param("post_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PostBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "post_updated", post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)
	postID, ok := util.ParseID(c.Param("post_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "post_deleted", nil)
}
