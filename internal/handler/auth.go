package handler

import (
	"fmt"
	"time"

	"lesson-server/internal/middleware"
	"lesson-server/internal/pkg/response"
	"lesson-server/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginRequest 机构登录请求。
// organizationId 和 organizationName 至少给一个。
type LoginRequest struct {
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required"`
	OrganizationID   int64  `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
	Refresh          bool   `json:"refresh"` // 为 true 时清空该用户的其它会话
}

// Login 机构登录。
// 账号可以是用户名、手机号或邮箱；
// 找到用户后过滤出当前有效的成员记录，合并角色并签发会话 token。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	clientIP := c.ClientIP()
	loginLimiter := service.GetLoginLimiter()
	ipLimiter := service.GetIPLoginLimiter()

	// 检查 IP 是否被锁定
	if locked, remaining := ipLimiter.IsLocked(clientIP); locked {
		response.Error(c, 429, fmt.Sprintf("IP 已被临时锁定，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	// 检查账号是否被锁定
	if locked, remaining := loginLimiter.IsLocked(req.Username); locked {
		response.Error(c, 429, fmt.Sprintf("账号已被临时锁定，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	user, err := service.FindUserByAccount(req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		loginLimiter.RecordFailure(req.Username)
		ipLimiter.RecordFailure(clientIP)
		fail(c, service.ErrUsernameOrPwd)
		return
	}

	// 找到 organizationId
	organizationID := req.OrganizationID
	if organizationID == 0 {
		if req.OrganizationName == "" {
			fail(c, service.ErrArgs)
			return
		}
		organ, err := service.GetOrganizationByName(req.OrganizationName)
		if err != nil {
			fail(c, err)
			return
		}
		organizationID = organ.ID
	}

	// 过滤出当前有效的成员记录
	members, err := service.GetActiveMembers(organizationID, user.ID, time.Now())
	if err != nil {
		fail(c, err)
		return
	}

	// 合并这个人在这个机构中的全部角色，并且生成一个 token
	token, roleID, err := service.MergeRoleAndIssueToken(members, user.ID, user.Username, organizationID, req.Refresh)
	if err != nil {
		fail(c, err)
		return
	}

	loginLimiter.RecordSuccess(req.Username)
	ipLimiter.RecordSuccess(clientIP)

	response.Success(c, gin.H{
		"token":          token,
		"roleId":         roleID,
		"organizationId": organizationID,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"realname": user.Realname,
		},
	})
}

// TokenRequest 重新签发 token 请求
type TokenRequest struct {
	OrganizationID int64 `json:"organizationId" binding:"required"`
	Refresh        bool  `json:"refresh"`
}

// Token 在已认证会话里为指定机构重新签发 token。
// 与登录不同，这里不做班级有效期过滤，取用户在机构中的全部成员记录。
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)

	members, err := service.GetMembers(req.OrganizationID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	token, roleID, err := service.MergeRoleAndIssueToken(members, userID, username, req.OrganizationID, req.Refresh)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":  token,
		"roleId": roleID,
	})
}

// Logout 退出登录，清空该用户的全部会话 token
func (h *AuthHandler) Logout(c *gin.Context) {
	service.GetTokenStore().ClearTokens(middleware.GetUserID(c))
	response.SuccessWithMessage(c, "已退出登录", nil)
}

// Profile 获取当前会话身份
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := service.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":           user,
		"organizationId": middleware.GetOrganizationID(c),
		"roleId":         middleware.GetRoleID(c),
	})
}
