package main

import (
	"fmt"
	"time"

	"github.com/19saki/BanXi/api"
	"github.com/19saki/BanXi/internal/gacha"
	"github.com/19saki/BanXi/internal/leveling"
	"github.com/19saki/BanXi/internal/platform/config"
	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/platform/startup"
	"github.com/19saki/BanXi/internal/reward"
	"github.com/19saki/BanXi/internal/task"
	"github.com/19saki/BanXi/internal/user"
	"github.com/19saki/BanXi/pkg/rng"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	store, err := database.Open(cfg.Database.Sqlite.Path)
	if err != nil {
		panic(fmt.Sprintf("无法打开数据库: %v", err))
	}
	defer store.Close()

	if err := startup.InitializeApplication(store); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 组装各模块：随机源和存储句柄都显式注入
	randomSource := rng.Default()
	engine := leveling.NewEngine(randomSource, true)

	handlers := api.Handlers{
		User:   user.NewHandler(user.NewService(store)),
		Task:   task.NewHandler(task.NewService(store, engine)),
		Reward: reward.NewHandler(reward.NewService(store)),
		Gacha:  gacha.NewHandler(gacha.NewService(store, randomSource)),
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r, store, handlers)

	fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
	if err := r.Run(cfg.Server.Address); err != nil {
		panic("Failed to start server: " + err.Error())
	}
}
