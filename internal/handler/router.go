package handler

import (
	"time"

	"lesson-server/internal/middleware"
	"lesson-server/internal/model"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(r *gin.Engine) {
	// 全局中间件
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(gin.Recovery())

	// 速率限制器
	limiter := middleware.NewRateLimiter(100, time.Minute)    // 普通接口：每分钟100次
	authLimiter := middleware.NewRateLimiter(10, time.Minute) // 认证接口：每分钟10次

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "lesson-server"})
	})

	// API 路由组
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiter))

	// 初始化 Handler
	authHandler := NewAuthHandler()
	organizationHandler := NewOrganizationHandler()
	lessonHandler := NewLessonHandler()

	// ==================== 公开接口 ====================
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware(authLimiter))
	{
		auth.POST("/login", authHandler.Login) // 机构登录
	}

	organizations := api.Group("/organizations")
	{
		// 机构查询（登录页需要，公开）
		organizations.GET("/search/url", organizationHandler.GetByURL)
		organizations.GET("/search/name", organizationHandler.GetByName)
	}

	// ==================== 需要认证的接口 ====================
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		// 会话
		authenticated.POST("/auth/token", authHandler.Token)
		authenticated.POST("/auth/logout", authHandler.Logout)
		authenticated.GET("/auth/profile", authHandler.Profile)

		// 机构
		orgs := authenticated.Group("/organizations")
		{
			orgs.GET("", organizationHandler.Index)
			orgs.GET("/packages", organizationHandler.Packages)
			orgs.GET("/packages/detail", organizationHandler.PackageDetail)
			orgs.GET("/packages/all", organizationHandler.GetPackages)
			orgs.GET("/check-user", organizationHandler.CheckUserInvalid)
			orgs.GET("/realname", organizationHandler.GetRealNameInOrg)
			orgs.GET("/member-count", organizationHandler.GetMemberCountByRole)
			orgs.GET("/:id", organizationHandler.Show)
		}

		// 机构管理（写操作带审计日志）
		orgAdmin := authenticated.Group("/organizations")
		orgAdmin.Use(middleware.AuditMiddleware())
		{
			orgAdmin.POST("", middleware.PlatformAdminMiddleware(), organizationHandler.Create)
			orgAdmin.PUT("/:id", organizationHandler.Update)
		}

		// 课程
		lessons := authenticated.Group("/lessons")
		{
			lessons.GET("", lessonHandler.List)
			lessons.GET("/:id", lessonHandler.Show)
			lessons.GET("/:id/skills", lessonHandler.Skills)
			lessons.GET("/:id/packages", lessonHandler.Packages)
		}

		// 课程写操作要求教师及以上角色
		lessonAdmin := authenticated.Group("/lessons")
		lessonAdmin.Use(middleware.RoleMiddleware(model.RoleTeacher))
		{
			lessonAdmin.POST("", lessonHandler.Create)
			lessonAdmin.PUT("/:id", lessonHandler.Update)
			lessonAdmin.DELETE("/:id", lessonHandler.Delete)
			lessonAdmin.POST("/:id/skills", lessonHandler.AddSkill)
		}
	}
}
