package task

import "time"

// Task 是一次性任务：完成一次后进入终态，不可重复完成也不可复活
type Task struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Name   string `json:"name"`

	XPReward       int `gorm:"column:xp_reward" json:"xp_reward"`
	PlatinumReward int `json:"platinum_reward"`

	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"-"`
}

// RepeatTask 是可重复完成的任务。
// MaxCompletions 为0表示不限次数；达到上限后 Completed 置为终态。
type RepeatTask struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Name   string `json:"name"`

	XPReward       int `gorm:"column:xp_reward" json:"xp_reward"`
	PlatinumReward int `json:"platinum_reward"`

	MaxCompletions     int `json:"max_completions"`
	CurrentCompletions int `json:"current_completions"`

	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"-"`
}
