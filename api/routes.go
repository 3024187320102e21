package api

import (
	"net/http"

	"github.com/19saki/BanXi/internal/gacha"
	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/platform/startup"
	"github.com/19saki/BanXi/internal/reward"
	"github.com/19saki/BanXi/internal/task"
	"github.com/19saki/BanXi/internal/user"
	"github.com/gin-gonic/gin"
)

// Handlers 汇集各模块的HTTP处理器
type Handlers struct {
	User   *user.Handler
	Task   *task.Handler
	Reward *reward.Handler
	Gacha  *gacha.Handler
}

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, store *database.Handle, h Handlers) {
	api := router.Group("/api")
	{
		// 用户相关的路由组 /api/users
		users := api.Group("/users")
		{
			users.GET("", h.User.List)
			users.POST("", h.User.Create)
			users.GET("/:id", h.User.Get)
			users.DELETE("/:id", h.User.Delete)
			users.POST("/:id/exchange", h.User.Exchange)

			// 用户名下的各类列表
			users.GET("/:id/tasks", h.Task.ListByUser)
			users.GET("/:id/repeat-tasks", h.Task.ListRepeatByUser)
			users.GET("/:id/rewards", h.Reward.ListByUser)
			users.GET("/:id/gacha/records", h.Gacha.Records)
			users.GET("/:id/gacha/stats", h.Gacha.Stats)
		}

		// 一次性任务 /api/tasks
		tasks := api.Group("/tasks")
		{
			tasks.POST("", h.Task.Create)
			tasks.POST("/:id/complete", h.Task.Complete)
			tasks.DELETE("/:id", h.Task.Delete)
		}

		// 重复任务 /api/repeat-tasks
		repeatTasks := api.Group("/repeat-tasks")
		{
			repeatTasks.POST("", h.Task.CreateRepeat)
			repeatTasks.POST("/:id/complete", h.Task.CompleteRepeat)
			repeatTasks.DELETE("/:id", h.Task.DeleteRepeat)
		}

		// 奖励商店 /api/rewards
		rewards := api.Group("/rewards")
		{
			rewards.POST("", h.Reward.Create)
			rewards.POST("/:id/redeem", h.Reward.Redeem)
			rewards.DELETE("/:id", h.Reward.Delete)
		}

		// 抽卡 /api/gacha
		gachaRoutes := api.Group("/gacha")
		{
			gachaRoutes.GET("/items", h.Gacha.ListItems)
			gachaRoutes.POST("/items", h.Gacha.AddItem)
			gachaRoutes.DELETE("/items/:id", h.Gacha.DeleteItem)
			gachaRoutes.POST("/draw", h.Gacha.Draw)
			gachaRoutes.POST("/draw10", h.Gacha.DrawTen)
		}

		// 开发者工具：清空数据并重新初始化
		api.POST("/admin/reset", func(c *gin.Context) {
			if err := store.Reset(startup.Reinitialize); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "reason": "storage_error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	}
}
