package middleware

import (
	"context"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenDenylist 已注销令牌的黑名单，Redis可用时由AuthService提供
type TokenDenylist interface {
	IsDenied(ctx context.Context, token string) bool
}

func extractToken(c *gin.Context) string {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}

	return tokenString
}

func AuthMiddleware(cfg *config.Config, denylist TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Forbidden(c)
			c.Abort()
			return
		}

		if denylist != nil && denylist.IsDenied(c.Request.Context(), tokenString) {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Set("token", tokenString)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：有合法令牌则附加身份，否则按游客继续
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			// 管理员直接放行
			if user.Role == model.Admin {
				hasRole = true
				break
			}
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
