package api

import (
	"Agora/internal/api/dto"
	"Agora/internal/api/middleware"
	"Agora/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.Response{Message: "pong"})
		})

		postGroup := apiGroup.Group("/posts")
		{
			// 匿名可访问，登录后补充 is_author/is_liked
			optGroup := postGroup.Group("")
			optGroup.Use(middleware.AuthOptionalMiddleware())
			{
				optGroup.GET("", group.PostHandler.ListPosts)
				optGroup.GET("/trending", group.PostHandler.Trending)
				optGroup.GET("/:post_id", group.PostHandler.GetPost)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/likes", group.PostActionHandler.LikePost)
				authGroup.DELETE("/:post_id/likes", group.PostActionHandler.UnlikePost)
			}
		}

		metricGroup := apiGroup.Group("/metrics")
		metricGroup.Use(middleware.AuthMiddleware())
		{
			metricGroup.GET("/post/:post_id", group.PostMetricHandler.GetMetrics)
		}
	}

	return r
}
