package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// JWTSecret 启动时由配置覆盖
	JWTSecret = "agora-dev-secret"
	// JWTIssuer 为空时不校验签发方
	JWTIssuer = ""
)

const JWTExpirationTime = time.Hour * 24

// UserClaims 访问令牌中携带的用户身份
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Setup 用配置中的密钥与签发方替换默认值
func Setup(secret, issuer string) {
	if secret != "" {
		JWTSecret = secret
	}
	JWTIssuer = issuer
}
