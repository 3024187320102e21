package task

import (
	"fmt"

	"github.com/19saki/BanXi/internal/user"
	"gorm.io/gorm"
)

// defaultRepeatTask 描述首次运行时为每个用户预置的重复任务
type defaultRepeatTask struct {
	name           string
	xpReward       int
	maxCompletions int
}

var defaultRepeatTasks = []defaultRepeatTask{
	{"0点前睡", 90, 1},
	{"9点前进入学习", 190, 1},
	{"一个番茄钟认真学习", 90, 0},
	{"一个番茄钟普通学习", 50, 0},
}

// EnsureDefaultRepeatTasks 在重复任务表为空时，为每个用户添加默认任务
func EnsureDefaultRepeatTasks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&RepeatTask{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法检查重复任务表: %w", err)
	}
	if count > 0 {
		return nil
	}

	var users []user.User
	if err := db.Find(&users).Error; err != nil {
		return fmt.Errorf("无法读取用户列表: %w", err)
	}

	for _, u := range users {
		for _, d := range defaultRepeatTasks {
			t := RepeatTask{
				UserID:         u.ID,
				Name:           d.name,
				XPReward:       d.xpReward,
				MaxCompletions: d.maxCompletions,
			}
			if err := db.Create(&t).Error; err != nil {
				return fmt.Errorf("无法创建默认重复任务: %w", err)
			}
		}
	}

	if len(users) > 0 {
		fmt.Printf("已为 %d 个用户添加 %d 个默认重复任务。\n", len(users), len(defaultRepeatTasks))
	}
	return nil
}
