package reward

import (
	"errors"
	"fmt"

	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/user"
	"gorm.io/gorm"
)

// --- 失败原因码 ---
const (
	ReasonRewardNotFound    = "reward_not_found"
	ReasonAlreadyRedeemed   = "already_redeemed"
	ReasonUserNotFound      = "user_not_found"
	ReasonNotEnoughCoins    = "not_enough_coins"
	ReasonNotEnoughPlatinum = "not_enough_platinum"
	ReasonInvalidAmount     = "invalid_amount"
	ReasonInvalidCurrency   = "invalid_currency"
)

// errRollback 标记业务前置条件失败，用于触发事务回滚而不上抛错误
var errRollback = errors.New("rollback")

// Service 提供奖励商店的操作
type Service struct {
	store *database.Handle
}

// NewService 创建商店服务
func NewService(store *database.Handle) *Service {
	return &Service{store: store}
}

// Create 为用户添加一个可兑换奖励，价格必须为正
func (s *Service) Create(userID uint, name string, price int, currencyType string) (*Reward, string, error) {
	if price <= 0 {
		return nil, ReasonInvalidAmount, nil
	}
	if currencyType == "" {
		currencyType = CurrencyCoins
	}
	if currencyType != CurrencyCoins && currencyType != CurrencyPlatinum {
		return nil, ReasonInvalidCurrency, nil
	}

	r := Reward{UserID: userID, Name: name, Price: price, CurrencyType: currencyType}
	if err := s.store.DB().Create(&r).Error; err != nil {
		return nil, "", fmt.Errorf("无法创建奖励: %w", err)
	}
	return &r, "", nil
}

// ListByUser 返回用户的奖励列表，未兑换的排在前面
func (s *Service) ListByUser(userID uint) ([]Reward, error) {
	var rewards []Reward
	if err := s.store.DB().Where("user_id = ?", userID).Order("completed, id").Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("无法读取奖励列表: %w", err)
	}
	return rewards, nil
}

// Delete 无条件删除奖励，与兑换状态无关
func (s *Service) Delete(rewardID uint) (bool, error) {
	result := s.store.DB().Delete(&Reward{}, rewardID)
	if result.Error != nil {
		return false, fmt.Errorf("无法删除奖励 %d: %w", rewardID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RedeemResult 是兑换奖励的结果，成功时同时返回两种货币的余额
type RedeemResult struct {
	Success           bool   `json:"success"`
	Reason            string `json:"reason,omitempty"`
	RemainingCoins    int    `json:"remaining_coins"`
	RemainingPlatinum int    `json:"remaining_platinum"`
}

// Redeem 兑换奖励。按奖励的货币类型扣除对应余额并把奖励置为已兑换，
// 两次写入在同一个事务中提交。
func (s *Service) Redeem(rewardID uint) (*RedeemResult, error) {
	res := &RedeemResult{}
	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		var r Reward
		if err := tx.First(&r, rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonRewardNotFound
				return errRollback
			}
			return err
		}
		if r.Completed {
			res.Reason = ReasonAlreadyRedeemed
			return errRollback
		}

		var u user.User
		if err := tx.First(&u, r.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonUserNotFound
				return errRollback
			}
			return err
		}

		var patch user.Patch
		switch r.CurrencyType {
		case CurrencyPlatinum:
			if u.PlatinumCoins < r.Price {
				res.Reason = ReasonNotEnoughPlatinum
				res.RemainingCoins = u.Coins
				res.RemainingPlatinum = u.PlatinumCoins
				return errRollback
			}
			patch.PlatinumCoins = user.Int(u.PlatinumCoins - r.Price)
		default:
			if u.Coins < r.Price {
				res.Reason = ReasonNotEnoughCoins
				res.RemainingCoins = u.Coins
				res.RemainingPlatinum = u.PlatinumCoins
				return errRollback
			}
			patch.Coins = user.Int(u.Coins - r.Price)
		}

		if err := tx.Model(&Reward{}).Where("id = ?", r.ID).Update("completed", true).Error; err != nil {
			return err
		}
		if err := patch.Apply(tx, u.ID); err != nil {
			return err
		}

		res.Success = true
		res.RemainingCoins = u.Coins
		res.RemainingPlatinum = u.PlatinumCoins
		if patch.Coins != nil {
			res.RemainingCoins = *patch.Coins
		}
		if patch.PlatinumCoins != nil {
			res.RemainingPlatinum = *patch.PlatinumCoins
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, fmt.Errorf("兑换奖励失败: %w", err)
	}
	return res, nil
}
