package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/19saki/BanXi/internal/platform/database"
	"gorm.io/gorm"
)

// --- 失败原因码 ---
// 业务失败以结果值的形式返回给UI层，由UI负责映射为用户可读的提示
const (
	ReasonEmptyName         = "empty_name"
	ReasonDuplicateName     = "duplicate_name"
	ReasonUserNotFound      = "user_not_found"
	ReasonInvalidAmount     = "invalid_amount"
	ReasonNotEnoughPlatinum = "not_enough_platinum"
)

// PlatinumExchangeRate 是铂金币兑换金币的固定汇率：1铂金币 = 100金币
const PlatinumExchangeRate = 100

// errRollback 标记业务前置条件失败，用于触发事务回滚而不上抛错误
var errRollback = errors.New("rollback")

// Service 提供用户账本的全部操作
type Service struct {
	store *database.Handle
}

// NewService 创建用户服务
func NewService(store *database.Handle) *Service {
	return &Service{store: store}
}

// Users 返回全部用户
func (s *Service) Users() ([]User, error) {
	var users []User
	if err := s.store.DB().Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("无法读取用户列表: %w", err)
	}
	return users, nil
}

// Get 返回指定用户，不存在时返回nil
func (s *Service) Get(id uint) (*User, error) {
	var u User
	if err := s.store.DB().First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法读取用户 %d: %w", id, err)
	}
	return &u, nil
}

// CreateResult 是创建用户的结果
type CreateResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	ID      uint   `json:"id,omitempty"`
}

// Create 创建一个新用户，用户名不允许为空或重复
func (s *Service) Create(name string) (*CreateResult, error) {
	if name == "" {
		return &CreateResult{Reason: ReasonEmptyName}, nil
	}

	u := User{Name: name, Level: 1}
	if err := s.store.DB().Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return &CreateResult{Reason: ReasonDuplicateName}, nil
		}
		return nil, fmt.Errorf("无法创建用户 %s: %w", name, err)
	}
	return &CreateResult{Success: true, ID: u.ID}, nil
}

// Delete 删除用户及其名下的全部任务、奖励和抽卡数据。
// 删除在一个事务中完成，保证引用完整性。
func (s *Service) Delete(id uint) (bool, error) {
	deleted := false
	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		// 先清理所有引用该用户的行，再删除用户本身
		for _, stmt := range []string{
			"DELETE FROM tasks WHERE user_id = ?",
			"DELETE FROM repeat_tasks WHERE user_id = ?",
			"DELETE FROM rewards WHERE user_id = ?",
			"DELETE FROM gacha_records WHERE user_id = ?",
			"DELETE FROM gacha_stats WHERE user_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&User{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("无法删除用户 %d: %w", id, err)
	}
	return deleted, nil
}

// ExchangeResult 是铂金币兑换金币的结果
type ExchangeResult struct {
	Success           bool   `json:"success"`
	Reason            string `json:"reason,omitempty"`
	CoinsGained       int    `json:"coins_gained,omitempty"`
	RemainingCoins    int    `json:"remaining_coins"`
	RemainingPlatinum int    `json:"remaining_platinum"`
}

// ExchangePlatinum 按固定汇率把铂金币单向兑换成金币。
// 扣减铂金币和增加金币在同一个事务中完成。
func (s *Service) ExchangePlatinum(userID uint, amount int) (*ExchangeResult, error) {
	res := &ExchangeResult{}
	if amount <= 0 {
		res.Reason = ReasonInvalidAmount
		return res, nil
	}

	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		var u User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonUserNotFound
				return errRollback
			}
			return err
		}

		if u.PlatinumCoins < amount {
			res.Reason = ReasonNotEnoughPlatinum
			res.RemainingCoins = u.Coins
			res.RemainingPlatinum = u.PlatinumCoins
			return errRollback
		}

		newPlatinum := u.PlatinumCoins - amount
		newCoins := u.Coins + amount*PlatinumExchangeRate
		patch := Patch{Coins: Int(newCoins), PlatinumCoins: Int(newPlatinum)}
		if err := patch.Apply(tx, u.ID); err != nil {
			return err
		}

		res.Success = true
		res.CoinsGained = amount * PlatinumExchangeRate
		res.RemainingCoins = newCoins
		res.RemainingPlatinum = newPlatinum
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, fmt.Errorf("铂金币兑换失败: %w", err)
	}
	return res, nil
}

// isUniqueViolation 识别SQLite的唯一约束错误。
// gorm的sqlite驱动并不总是把它翻译成gorm.ErrDuplicatedKey。
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
