package task

import (
	"errors"
	"fmt"

	"github.com/19saki/BanXi/internal/leveling"
	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/user"
	"gorm.io/gorm"
)

// --- 失败原因码 ---
const (
	ReasonTaskNotFound     = "task_not_found"
	ReasonAlreadyCompleted = "already_completed"
	ReasonUserNotFound     = "user_not_found"
	ReasonInvalidAmount    = "invalid_amount"
)

// errRollback 标记业务前置条件失败，用于触发事务回滚而不上抛错误
var errRollback = errors.New("rollback")

// Service 提供一次性任务和重复任务的完整生命周期操作。
// 完成任务时对任务行、用户账本的全部修改在同一个事务中提交。
type Service struct {
	store  *database.Handle
	engine *leveling.Engine
}

// NewService 创建任务服务
func NewService(store *database.Handle, engine *leveling.Engine) *Service {
	return &Service{store: store, engine: engine}
}

// --- 一次性任务 ---

// Create 为用户创建一个一次性任务
func (s *Service) Create(userID uint, name string, xpReward, platinumReward int) (*Task, error) {
	t := Task{UserID: userID, Name: name, XPReward: xpReward, PlatinumReward: platinumReward}
	if err := s.store.DB().Create(&t).Error; err != nil {
		return nil, fmt.Errorf("无法创建任务: %w", err)
	}
	return &t, nil
}

// ListByUser 返回用户的任务列表，未完成的排在前面
func (s *Service) ListByUser(userID uint) ([]Task, error) {
	var tasks []Task
	if err := s.store.DB().Where("user_id = ?", userID).Order("completed, id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("无法读取任务列表: %w", err)
	}
	return tasks, nil
}

// Delete 无条件删除任务，与完成状态无关
func (s *Service) Delete(taskID uint) (bool, error) {
	result := s.store.DB().Delete(&Task{}, taskID)
	if result.Error != nil {
		return false, fmt.Errorf("无法删除任务 %d: %w", taskID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CompleteResult 是完成任务的结果，完整的升级轨迹供UI逐级展示
type CompleteResult struct {
	Success        bool                    `json:"success"`
	Reason         string                  `json:"reason,omitempty"`
	UserID         uint                    `json:"user_id,omitempty"`
	XPGranted      int                     `json:"xp_granted"`
	Leveled        int                     `json:"leveled"`
	CoinsGained    int                     `json:"coins_gained"`
	PlatinumGained int                     `json:"platinum_gained"`
	NewLevel       int                     `json:"new_level"`
	NewXP          int                     `json:"new_xp"`
	LevelUpDetails []leveling.LevelUpDetail `json:"level_up_details"`
}

// Complete 完成一次性任务并发放奖励。
// 任务标记、经验结算和账本写入在一个事务中完成，完成是终态。
func (s *Service) Complete(taskID uint) (*CompleteResult, error) {
	res := &CompleteResult{}
	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		var t Task
		if err := tx.First(&t, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonTaskNotFound
				return errRollback
			}
			return err
		}
		if t.Completed {
			res.Reason = ReasonAlreadyCompleted
			return errRollback
		}

		if err := tx.Model(&Task{}).Where("id = ?", t.ID).Update("completed", true).Error; err != nil {
			return err
		}

		var u user.User
		if err := tx.First(&u, t.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonUserNotFound
				return errRollback
			}
			return err
		}

		lv := s.engine.ApplyXP(u.XP, u.Level, t.XPReward)
		platinumGained := t.PlatinumReward + lv.PlatinumGained

		patch := user.Patch{
			XP:            user.Int(lv.NewXP),
			Level:         user.Int(lv.NewLevel),
			Coins:         user.Int(u.Coins + lv.CoinsGained),
			PlatinumCoins: user.Int(u.PlatinumCoins + platinumGained),
		}
		if err := patch.Apply(tx, u.ID); err != nil {
			return err
		}

		res.Success = true
		res.UserID = u.ID
		res.XPGranted = t.XPReward
		res.Leveled = lv.LevelsGained
		res.CoinsGained = lv.CoinsGained
		res.PlatinumGained = platinumGained
		res.NewLevel = lv.NewLevel
		res.NewXP = lv.NewXP
		res.LevelUpDetails = lv.Details
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, fmt.Errorf("完成任务失败: %w", err)
	}
	return res, nil
}

// --- 重复任务 ---

// CreateRepeat 为用户创建一个重复任务，maxCompletions为0表示不限次数
func (s *Service) CreateRepeat(userID uint, name string, xpReward, platinumReward, maxCompletions int) (*RepeatTask, error) {
	t := RepeatTask{
		UserID:         userID,
		Name:           name,
		XPReward:       xpReward,
		PlatinumReward: platinumReward,
		MaxCompletions: maxCompletions,
	}
	if err := s.store.DB().Create(&t).Error; err != nil {
		return nil, fmt.Errorf("无法创建重复任务: %w", err)
	}
	return &t, nil
}

// ListRepeatByUser 返回用户的重复任务列表，未封顶的排在前面
func (s *Service) ListRepeatByUser(userID uint) ([]RepeatTask, error) {
	var tasks []RepeatTask
	if err := s.store.DB().Where("user_id = ?", userID).Order("completed, id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("无法读取重复任务列表: %w", err)
	}
	return tasks, nil
}

// DeleteRepeat 无条件删除重复任务
func (s *Service) DeleteRepeat(taskID uint) (bool, error) {
	result := s.store.DB().Delete(&RepeatTask{}, taskID)
	if result.Error != nil {
		return false, fmt.Errorf("无法删除重复任务 %d: %w", taskID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RepeatCompleteResult 是完成重复任务的结果。
// TimesCompleted 是按剩余容量收敛后的实际完成次数。
type RepeatCompleteResult struct {
	Success          bool                    `json:"success"`
	Reason           string                  `json:"reason,omitempty"`
	UserID           uint                    `json:"user_id,omitempty"`
	TaskName         string                  `json:"task_name,omitempty"`
	TimesCompleted   int                     `json:"times_completed"`
	TotalXP          int                     `json:"total_xp"`
	XPPerCompletion  int                     `json:"xp_per_completion"`
	Leveled          int                     `json:"leveled"`
	CoinsGained      int                     `json:"coins_gained"`
	PlatinumGained   int                     `json:"platinum_gained"`
	NewLevel         int                     `json:"new_level"`
	NewXP            int                     `json:"new_xp"`
	CompletionCount  int                     `json:"completion_count"`
	MaxCompletions   int                     `json:"max_completions"`
	IsFullyCompleted bool                    `json:"is_fully_completed"`
	LevelUpDetails   []leveling.LevelUpDetail `json:"level_up_details"`
}

// CompleteRepeat 一次性提交times次重复任务完成。
// times会收敛到不超过剩余容量；收敛后为0视为任务已封顶。
// 聚合经验只做一次级联结算，全部修改在一个事务中提交。
func (s *Service) CompleteRepeat(taskID uint, times int) (*RepeatCompleteResult, error) {
	res := &RepeatCompleteResult{}
	if times <= 0 {
		res.Reason = ReasonInvalidAmount
		return res, nil
	}

	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		var t RepeatTask
		if err := tx.First(&t, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonTaskNotFound
				return errRollback
			}
			return err
		}
		if t.Completed {
			res.Reason = ReasonAlreadyCompleted
			return errRollback
		}

		// 收敛到剩余容量
		clamped := times
		if t.MaxCompletions > 0 {
			remaining := t.MaxCompletions - t.CurrentCompletions
			if clamped > remaining {
				clamped = remaining
			}
		}
		if clamped <= 0 {
			res.Reason = ReasonAlreadyCompleted
			return errRollback
		}

		newCompletions := t.CurrentCompletions + clamped
		fullyCompleted := t.MaxCompletions > 0 && newCompletions >= t.MaxCompletions

		if err := tx.Model(&RepeatTask{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"current_completions": newCompletions,
			"completed":           fullyCompleted,
		}).Error; err != nil {
			return err
		}

		var u user.User
		if err := tx.First(&u, t.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonUserNotFound
				return errRollback
			}
			return err
		}

		totalXP := t.XPReward * clamped
		lv := s.engine.ApplyXP(u.XP, u.Level, totalXP)
		platinumGained := t.PlatinumReward*clamped + lv.PlatinumGained

		patch := user.Patch{
			XP:            user.Int(lv.NewXP),
			Level:         user.Int(lv.NewLevel),
			Coins:         user.Int(u.Coins + lv.CoinsGained),
			PlatinumCoins: user.Int(u.PlatinumCoins + platinumGained),
		}
		if err := patch.Apply(tx, u.ID); err != nil {
			return err
		}

		res.Success = true
		res.UserID = u.ID
		res.TaskName = t.Name
		res.TimesCompleted = clamped
		res.TotalXP = totalXP
		res.XPPerCompletion = t.XPReward
		res.Leveled = lv.LevelsGained
		res.CoinsGained = lv.CoinsGained
		res.PlatinumGained = platinumGained
		res.NewLevel = lv.NewLevel
		res.NewXP = lv.NewXP
		res.CompletionCount = newCompletions
		res.MaxCompletions = t.MaxCompletions
		res.IsFullyCompleted = fullyCompleted
		res.LevelUpDetails = lv.Details
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, fmt.Errorf("完成重复任务失败: %w", err)
	}
	return res, nil
}
