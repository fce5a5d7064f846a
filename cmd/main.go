package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"lesson-server/internal/config"
	"lesson-server/internal/handler"
	"lesson-server/internal/model"

	"github.com/gin-gonic/gin"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	migrate := flag.Bool("migrate", false, "是否执行数据库迁移")
	initAdmin := flag.Bool("init-admin", false, "初始化平台管理员账号")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	if err := model.InitDB(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	log.Println("数据库连接成功")

	// 自动执行数据库迁移（确保表结构是最新的）
	log.Println("检查数据库表结构...")
	if err := model.AutoMigrate(); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 数据库迁移（仅迁移模式）
	if *migrate {
		log.Println("数据库迁移完成")
		os.Exit(0)
	}

	// 初始化平台管理员账号
	if *initAdmin {
		log.Println("初始化平台管理员账号...")

		adminUsername := "admin"
		adminPassword := "admin123"

		var existing model.User
		if err := model.DB.Where("username = ?", adminUsername).First(&existing).Error; err == nil {
			log.Println("管理员账号已存在")
			os.Exit(0)
		}

		admin := model.User{
			Username: adminUsername,
			RoleID:   model.UserRoleAdmin,
		}
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("密码加密失败: %v", err)
		}
		if err := model.DB.Create(&admin).Error; err != nil {
			log.Fatalf("创建管理员失败: %v", err)
		}

		log.Println("管理员账号创建成功!")
		log.Println("用户名: admin")
		log.Println("密码: admin123")
		log.Println("")
		log.Println("【重要提示】请登录后立即修改默认密码！")
		os.Exit(0)
	}

	// 创建 Gin 引擎
	r := gin.New()

	// 设置路由
	handler.SetupRouter(r)

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("服务器启动在 http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
