package main

import (
	"log"
	"os"

	"github.com/flohub/flohub/internal/config"
	"github.com/flohub/flohub/internal/db"
	"github.com/flohub/flohub/internal/handler"
	"github.com/flohub/flohub/internal/router"
	"github.com/flohub/flohub/internal/secure"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 可选地通过环境变量引导首个账号
	if err := db.EnsureUser(os.Getenv("FLOHUB_ADMIN_USER"), os.Getenv("FLOHUB_ADMIN_PASSWORD")); err != nil {
		log.Fatalf("failed to ensure bootstrap user: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, secure.NewCodec(cfg.EnvelopeSecret)).
		WithDefaultTimezone(cfg.DefaultTimezone)
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
