package user

import "gorm.io/gorm"

// Patch 描述对用户账本的一次局部更新，nil字段保持不变。
// 所有给定字段在一条UPDATE语句中合并写入，
// 用显式的可选字段结构代替动态拼接列名。
type Patch struct {
	XP            *int
	Level         *int
	Coins         *int
	PlatinumCoins *int
}

// fields 把非nil字段转换成GORM的更新映射
func (p Patch) fields() map[string]interface{} {
	m := map[string]interface{}{}
	if p.XP != nil {
		m["xp"] = *p.XP
	}
	if p.Level != nil {
		m["level"] = *p.Level
	}
	if p.Coins != nil {
		m["coins"] = *p.Coins
	}
	if p.PlatinumCoins != nil {
		m["platinum_coins"] = *p.PlatinumCoins
	}
	return m
}

// Apply 在给定的连接（通常是一个打开的事务）上执行局部更新
func (p Patch) Apply(tx *gorm.DB, userID uint) error {
	fields := p.fields()
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&User{}).Where("id = ?", userID).Updates(fields).Error
}

// Int 返回指向给定整数的指针，便于内联构造Patch
func Int(v int) *int {
	return &v
}
