package middleware

import (
	"Agora/internal/pkg/consts"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			c.Set(consts.ContextUserID, uint64(0))
			c.Next()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}
