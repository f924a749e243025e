package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/util"
	"Agora/internal/service"

	"github.com/gin-gonic/gin"
)

type PostMetricHandler struct {
	postMetricSvc service.PostMetricService
}

func NewPostMetricHandler(postMetricSvc service.PostMetricService) *PostMetricHandler {
	return &PostMetricHandler{
		postMetricSvc: postMetricSvc,
	}
}

// GetMetrics 获取帖子 7 天或 30 天趋势
func (h *PostMetricHandler) GetMetrics(c *gin.Context) {
	userID := c.GetUint64(consts.ContextUserID)
	postID, ok := util.ParseID(c.Param("post_id"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var query dto.PostMetricQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrInvalidMetricDays)
		return
	}

	metricData, err := h.postMetricSvc.GetPostMetrics(c.Request.Context(), userID, postID, query.Days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "read_metrics_success", metricData)
}
