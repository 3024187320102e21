package user

import "time"

// User 定义了用户在SQLite数据库中的持久化模型。
// 经验、等级和两种货币是整个经济系统的账本，
// 所有发放奖励或消费货币的操作最终都落到这张表上。
type User struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	// XP 是当前等级内已累积的经验，始终小于当前等级的升级门槛
	XP int `gorm:"column:xp" json:"xp"`

	// Level 从1开始
	Level int `gorm:"default:1" json:"level"`

	// Coins 是普通货币，PlatinumCoins 是高级货币，均不允许为负
	Coins         int `json:"coins"`
	PlatinumCoins int `json:"platinum_coins"`

	CreatedAt time.Time `json:"-"`
}
