package middleware

import (
	"strings"

	"lesson-server/internal/config"
	"lesson-server/internal/model"
	"lesson-server/internal/pkg/crypto"
	"lesson-server/internal/pkg/response"
	"lesson-server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT 认证中间件。
// 解析 Bearer token 后还要求 token 仍在该用户的白名单内，
// 被挤掉或被清空的 token 视为已失效。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		// Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "认证格式错误")
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := crypto.ParseToken(token, config.Get().JWT.Secret)
		if err != nil {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		if !service.GetTokenStore().ValidateToken(claims.UserID, token) {
			response.Unauthorized(c, "认证已失效，请重新登录")
			c.Abort()
			return
		}

		// 将会话身份存入上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("organization_id", claims.OrganizationID)
		c.Set("role_id", model.ClassMemberRole(claims.RoleID))

		c.Next()
	}
}

// RoleMiddleware 机构角色门槛中间件
func RoleMiddleware(threshold model.ClassMemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRoleID(c).MeetsOrExceeds(threshold) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PlatformAdminMiddleware 平台管理员中间件
func PlatformAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := service.GetUserByID(GetUserID(c))
		if err != nil || !user.IsPlatformAdmin() {
			response.Forbidden(c, "需要平台管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) int64 {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(int64); ok {
		return id
	}
	return 0
}

// GetUsername 从上下文获取用户名
func GetUsername(c *gin.Context) string {
	username, _ := c.Get("username")
	if name, ok := username.(string); ok {
		return name
	}
	return ""
}

// GetOrganizationID 从上下文获取机构 ID
func GetOrganizationID(c *gin.Context) int64 {
	organizationID, _ := c.Get("organization_id")
	if id, ok := organizationID.(int64); ok {
		return id
	}
	return 0
}

// GetRoleID 从上下文获取机构会话角色
func GetRoleID(c *gin.Context) model.ClassMemberRole {
	roleID, _ := c.Get("role_id")
	if r, ok := roleID.(model.ClassMemberRole); ok {
		return r
	}
	return 0
}
