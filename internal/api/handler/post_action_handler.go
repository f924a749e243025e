package handler

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	postActionSvc service.PostActionService
}

func NewPostActionHandler(postActionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		postActionSvc: postActionSvc,
	}
}

// LikePost 点赞帖子，重复点赞返回 400
func (h *PostActionHandler) LikePost(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)
	postID, ok := util.ParseID(c.Param("post_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := h.postActionSvc.LikePost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "like_created", state)
}

// UnlikePost 取消点赞帖子
func (h *PostActionHandler) UnlikePost(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)
	postID, ok := util.ParseID(c.Param("post_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := h.postActionSvc.UnlikePost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "like_deleted", state)
}
