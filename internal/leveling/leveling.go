package leveling

import (
	"math"

	"github.com/19saki/BanXi/pkg/rng"
)

// --- 等级曲线常量 ---
const (
	baseXP     = 100 // 1级升2级所需经验
	xpPerLevel = 19  // 每升一级所需经验的线性增量

	// 升级金币奖励的随机倍率区间
	minMultiplier = 0.8
	maxMultiplier = 1.5
)

// XPRequired 计算从指定等级升到下一级所需的经验值。
// 线性增长公式：100 + (等级-1) * 19，等级从1开始。
func XPRequired(level int) int {
	return baseXP + (level-1)*xpPerLevel
}

// LevelUpDetail 记录一次升级的完整奖励信息，供UI逐级展示升级过程
type LevelUpDetail struct {
	FromLevel        int     `json:"from_level"`
	ToLevel          int     `json:"to_level"`
	BaseReward       int     `json:"base_reward"`
	RandomMultiplier float64 `json:"random_multiplier"`
	ActualReward     int     `json:"actual_reward"`
	PlatinumReward   int     `json:"platinum_reward"`
}

// Result 是一次经验结算的完整结果
type Result struct {
	NewXP          int
	NewLevel       int
	LevelsGained   int
	CoinsGained    int
	PlatinumGained int
	Details        []LevelUpDetail
}

// Engine 负责经验结算与升级奖励的计算。
// 随机倍率从注入的随机源取得，测试时可以注入确定性序列。
type Engine struct {
	rng rng.Source
	// evenLevelPlatinum 控制是否在到达偶数等级时额外奖励1枚铂金币
	evenLevelPlatinum bool
}

// NewEngine 创建一个经验结算引擎
func NewEngine(src rng.Source, evenLevelPlatinum bool) *Engine {
	return &Engine{rng: src, evenLevelPlatinum: evenLevelPlatinum}
}

// ApplyXP 把获得的经验累加到当前状态上，并处理可能的连续升级。
// 一次较大的经验奖励可能跨越多个等级门槛，每跨越一级都会：
//   - 扣除该级门槛经验并提升等级
//   - 按 [0.8, 1.5] 区间的随机倍率发放金币（基数为该级门槛）
//   - 记录一条升级明细
//
// 返回结果满足 NewXP < XPRequired(NewLevel)。
func (e *Engine) ApplyXP(currentXP, currentLevel, gainedXP int) Result {
	newXP := currentXP + gainedXP
	level := currentLevel

	res := Result{}
	for newXP >= XPRequired(level) {
		threshold := XPRequired(level)
		newXP -= threshold
		level++
		res.LevelsGained++

		multiplier := minMultiplier + e.rng.Float64()*(maxMultiplier-minMultiplier)
		reward := int(float64(threshold) * multiplier)
		res.CoinsGained += reward

		platinum := 0
		if e.evenLevelPlatinum && level%2 == 0 {
			platinum = 1
			res.PlatinumGained++
		}

		res.Details = append(res.Details, LevelUpDetail{
			FromLevel:        level - 1,
			ToLevel:          level,
			BaseReward:       threshold,
			RandomMultiplier: math.Round(multiplier*100) / 100,
			ActualReward:     reward,
			PlatinumReward:   platinum,
		})
	}

	res.NewXP = newXP
	res.NewLevel = level
	return res
}
