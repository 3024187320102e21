package startup

import (
	"fmt"

	"github.com/19saki/BanXi/internal/gacha"
	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/reward"
	"github.com/19saki/BanXi/internal/task"
	"github.com/19saki/BanXi/internal/user"
	"gorm.io/gorm"
)

// InitializeApplication 是应用首次启动时执行的总入口：
// 按顺序应用迁移并填入各模块的默认数据。
func InitializeApplication(store *database.Handle) error {
	fmt.Println("开始应用初始化...")
	if err := Reinitialize(store.DB()); err != nil {
		return err
	}
	fmt.Println("应用初始化完成！")
	return nil
}

// Reinitialize 在给定连接上重建全部结构和默认数据。
// 数据库硬重置后也通过它恢复到可用状态。
func Reinitialize(db *gorm.DB) error {
	if err := database.Migrate(db, Migrations()); err != nil {
		return err
	}
	if err := user.EnsureDefaultUsers(db); err != nil {
		return err
	}
	if err := task.EnsureDefaultRepeatTasks(db); err != nil {
		return err
	}
	if err := gacha.EnsureDefaultItems(db); err != nil {
		return err
	}
	return nil
}

// Migrations 返回全部结构迁移，按版本号升序应用
func Migrations() []database.Migration {
	return []database.Migration{
		{
			Version: 1,
			Name:    "create economy tables",
			Run: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&user.User{}, &task.Task{}, &task.RepeatTask{}, &reward.Reward{})
			},
		},
		{
			Version: 2,
			Name:    "create gacha tables",
			Run: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&gacha.Item{}, &gacha.Record{}, &gacha.Stats{})
			},
		},
	}
}
