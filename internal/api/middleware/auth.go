package middleware

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/redis"
	"Agora/internal/pkg/response"
	"Agora/internal/pkg/security"
	"Agora/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, service.ErrUnauthorized.Error())
			c.Abort()
			return
		}

		setUser(c, claims)
		c.Next()
	}
}

// parseBearer 解析 Authorization 头并检查令牌是否已被吊销
func parseBearer(c *gin.Context) (*security.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, service.ErrUnauthorized
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return nil, err
	}

	if redis.Enabled() {
		value, err := redis.GetValue(c.Request.Context(), consts.TokenBlacklistKey+signature)
		if err != nil {
			log.WarnContext(c.Request.Context(), "token blacklist lookup failed", "err", err)
		} else if value != "" {
			return nil, service.ErrUnauthorized
		}
	}

	return security.ValidateToken(tokenString)
}

func setUser(c *gin.Context, claims *security.UserClaims) {
	c.Set(consts.ContextUserID, claims.UserID)

	//nolint:staticcheck
	newCtx := context.WithValue(c.Request.Context(), consts.ContextUserID, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
