package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"lesson-server/internal/model"

	"github.com/gin-gonic/gin"
)

// AuditMiddleware 审计中间件，记录机构管理端的写操作
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == "GET" {
			c.Next()
			return
		}

		start := time.Now()

		// 读取请求体后放回，供后续 handler 使用
		var requestBody string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			requestBody = maskPassword(string(bodyBytes))
		}

		c.Next()

		entry := model.AuditLog{
			OrganizationID: GetOrganizationID(c),
			UserID:         GetUserID(c),
			Username:       GetUsername(c),
			Action:         actionFromMethod(method, c.Request.URL.Path),
			Path:           c.Request.URL.Path,
			RequestBody:    truncate(requestBody, 2000),
			ResponseCode:   c.Writer.Status(),
			Duration:       time.Since(start).Milliseconds(),
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
		}

		// 异步写入，不阻塞响应
		go func() {
			model.DB.Create(&entry)
		}()
	}
}

func actionFromMethod(method, path string) string {
	switch method {
	case "POST":
		if strings.Contains(path, "/login") || strings.Contains(path, "/token") {
			return model.ActionLogin
		}
		return model.ActionCreate
	case "PUT":
		return model.ActionUpdate
	case "DELETE":
		return model.ActionDelete
	}
	return method
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func maskPassword(data string) string {
	if !strings.Contains(data, "password") {
		return data
	}
	// 简单脱敏，不解析 JSON
	return strings.ReplaceAll(data, `"password"`, `"password_masked"`)
}
