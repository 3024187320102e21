package reward

import "time"

// 货币类型，决定兑换时从哪种余额中扣款
const (
	CurrencyCoins    = "coins"
	CurrencyPlatinum = "platinum"
)

// Reward 是商店中的可兑换奖励。
// 兑换一次后进入终态，奖励不可重复兑换。
type Reward struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Name   string `json:"name"`

	Price        int    `json:"price"`
	CurrencyType string `gorm:"default:coins" json:"currency_type"`

	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"-"`
}
