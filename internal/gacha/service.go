package gacha

import (
	"errors"
	"fmt"
	"time"

	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/user"
	"github.com/19saki/BanXi/pkg/rng"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- 失败原因码 ---
const (
	ReasonUserNotFound   = "user_not_found"
	ReasonNotEnoughCoins = "not_enough_coins"
	ReasonNoItemsInStar  = "no_items_in_star"
	ReasonItemNotFound   = "item_not_found"
	ReasonInvalidStar    = "invalid_star"
)

// errRollback 标记业务前置条件失败，用于触发事务回滚而不上抛错误
var errRollback = errors.New("rollback")

// errNoItems 表示选中的星级在奖池中没有奖品。
// 这是目录配置错误而不是用户错误，整个操作回滚。
var errNoItems = errors.New("no items in star")

// Service 实现抽卡引擎。
// 每次抽取（单抽或十连）是一个完整的事务：扣费、判定、记录、
// 重复返还和保底状态更新要么全部生效，要么全部回滚。
type Service struct {
	store *database.Handle
	rng   rng.Source
}

// NewService 创建抽卡服务
func NewService(store *database.Handle, src rng.Source) *Service {
	return &Service{store: store, rng: src}
}

// ItemView 是返回给UI的奖品信息
type ItemView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Star        int    `json:"star"`
	Description string `json:"description"`
}

// PityInfo 是返回给UI的保底状态
type PityInfo struct {
	NoSixStarCount int     `json:"no_six_star_count"`
	PityRate       float64 `json:"pity_rate"`
}

// DrawResult 是单抽的结果
type DrawResult struct {
	Success        bool      `json:"success"`
	Reason         string    `json:"reason,omitempty"`
	Item           *ItemView `json:"item,omitempty"`
	IsDuplicate    bool      `json:"is_duplicate"`
	RefundCoins    int       `json:"refund_coins"`
	RemainingCoins int       `json:"remaining_coins"`
	Pity           PityInfo  `json:"pity_info"`
}

// pullOutcome 是一次抽取判定的内部结果
type pullOutcome struct {
	item        Item
	star        int
	isDuplicate bool
	refund      int
}

// resolvePull 在打开的事务中执行一次抽取判定：
// 按保底调整后的概率选星级，在该星级内均匀选奖品，
// 追加抽卡记录并判定重复，最后推进保底状态。
// 返回判定结果和推进后的 (连续未出6星次数, 保底加成)。
func (s *Service) resolvePull(tx *gorm.DB, userID uint, count int, pity float64) (pullOutcome, int, float64, error) {
	rates := AdjustedRates(pity)
	star := PickStar(s.rng.Float64(), rates)

	var items []Item
	if err := tx.Where("star = ?", star).Find(&items).Error; err != nil {
		return pullOutcome{}, 0, 0, err
	}
	if len(items) == 0 {
		return pullOutcome{}, 0, 0, errNoItems
	}
	item := items[s.rng.IntN(len(items))]

	record := Record{UserID: userID, ItemID: item.ID, DrawTime: time.Now()}
	if err := tx.Create(&record).Error; err != nil {
		return pullOutcome{}, 0, 0, err
	}

	// 含本次记录在内计数，大于1即为重复获得
	var owned int64
	if err := tx.Model(&Record{}).Where("user_id = ? AND item_id = ?", userID, item.ID).Count(&owned).Error; err != nil {
		return pullOutcome{}, 0, 0, err
	}

	outcome := pullOutcome{item: item, star: star}
	if owned > 1 {
		outcome.isDuplicate = true
		outcome.refund = refundFor(star)
	}

	// 保底推进：出6星整体重置，否则计数加一；
	// 计数达到阈值后的每一抽都再叠加一次加成，直到封顶
	newCount := count + 1
	newPity := pity
	if star == 6 {
		newCount = 0
		newPity = 0.0
	} else if newCount >= PityThreshold {
		newPity = pity + PityStep
		if newPity > PityCap {
			newPity = PityCap
		}
	}

	return outcome, newCount, newPity, nil
}

// loadStats 读取用户保底状态，缺省为 (0, 0.0)
func loadStats(tx *gorm.DB, userID uint) (int, float64, error) {
	var st Stats
	err := tx.Where("user_id = ?", userID).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0.0, nil
		}
		return 0, 0, err
	}
	return st.NoSixStarCount, st.PityRate, nil
}

// saveStats 写回用户保底状态（按主键覆盖）
func saveStats(tx *gorm.DB, userID uint, count int, pity float64) error {
	st := Stats{UserID: userID, NoSixStarCount: count, PityRate: pity}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&st).Error
}

// Draw 执行单抽。
// 先校验余额并扣费，再判定奖品——扣费在前保证事务中途失败时
// 费用随事务一并回滚，不会出现只扣费不发奖的中间状态。
func (s *Service) Draw(userID uint) (*DrawResult, error) {
	res := &DrawResult{}
	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonUserNotFound
				return errRollback
			}
			return err
		}
		if u.Coins < SingleCost {
			res.Reason = ReasonNotEnoughCoins
			return errRollback
		}

		coins := u.Coins - SingleCost
		if err := (user.Patch{Coins: user.Int(coins)}).Apply(tx, userID); err != nil {
			return err
		}

		count, pity, err := loadStats(tx, userID)
		if err != nil {
			return err
		}

		outcome, newCount, newPity, err := s.resolvePull(tx, userID, count, pity)
		if err != nil {
			if errors.Is(err, errNoItems) {
				res.Reason = ReasonNoItemsInStar
				return errRollback
			}
			return err
		}

		if outcome.refund > 0 {
			coins += outcome.refund
			if err := (user.Patch{Coins: user.Int(coins)}).Apply(tx, userID); err != nil {
				return err
			}
		}

		if err := saveStats(tx, userID, newCount, newPity); err != nil {
			return err
		}

		res.Success = true
		res.Item = &ItemView{
			ID:          outcome.item.ID,
			Name:        outcome.item.Name,
			Star:        outcome.star,
			Description: outcome.item.Description,
		}
		res.IsDuplicate = outcome.isDuplicate
		res.RefundCoins = outcome.refund
		res.RemainingCoins = coins
		res.Pity = PityInfo{NoSixStarCount: newCount, PityRate: newPity}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, fmt.Errorf("抽卡失败: %w", err)
	}
	return res, nil
}

// TenDrawEntry 是十连中一次抽取的结果
type TenDrawEntry struct {
	Item        ItemView `json:"item"`
	IsDuplicate bool     `json:"is_duplicate"`
	RefundCoins int      `json:"refund_coins"`
}

// TenDrawResult 是十连的结果
type TenDrawResult struct {
	Success        bool           `json:"success"`
	Reason         string         `json:"reason,omitempty"`
	Draws          []TenDrawEntry `json:"draws"`
	TotalRefund    int            `json:"total_refund"`
	RemainingCoins int            `json:"remaining_coins"`
	Pity           PityInfo       `json:"pity_info"`
}

// DrawTen 执行十连。费用一次性扣除，十次判定在同一个事务中
// 在内存里依次进行，批次内每一抽都能看到前一抽推进后的保底状态。
// 用户余额和保底状态在循环结束后只写回一次，一次提交。
// 任何一抽碰到空星级目录都会让整个批次回滚（与单抽路径一致）。
func (s *Service) DrawTen(userID uint) (*TenDrawResult, error) {
	res := &TenDrawResult{}
	err := s.store.DB().Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Reason = ReasonUserNotFound
				return errRollback
			}
			return err
		}
		if u.Coins < TenCost {
			res.Reason = ReasonNotEnoughCoins
			return errRollback
		}

		coins := u.Coins - TenCost
		count, pity, err := loadStats(tx, userID)
		if err != nil {
			return err
		}

		entries := make([]TenDrawEntry, 0, TenPullCount)
		totalRefund := 0

		for i := 0; i < TenPullCount; i++ {
			outcome, newCount, newPity, err := s.resolvePull(tx, userID, count, pity)
			if err != nil {
				if errors.Is(err, errNoItems) {
					res.Reason = ReasonNoItemsInStar
					return errRollback
				}
				return err
			}
			count, pity = newCount, newPity

			coins += outcome.refund
			totalRefund += outcome.refund

			entries = append(entries, TenDrawEntry{
				Item: ItemView{
					ID:          outcome.item.ID,
					Name:        outcome.item.Name,
					Star:        outcome.star,
					Description: outcome.item.Description,
				},
				IsDuplicate: outcome.isDuplicate,
				RefundCoins: outcome.refund,
			})
		}

		// 聚合状态只在批次结束时写回一次
		if err := (user.Patch{Coins: user.Int(coins)}).Apply(tx, userID); err != nil {
			return err
		}
		if err := saveStats(tx, userID, count, pity); err != nil {
			return err
		}

		res.Success = true
		res.Draws = entries
		res.TotalRefund = totalRefund
		res.RemainingCoins = coins
		res.Pity = PityInfo{NoSixStarCount: count, PityRate: pity}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, fmt.Errorf("十连抽失败: %w", err)
	}
	return res, nil
}

// --- 目录与查询 ---

// Items 返回奖池全部奖品，按星级降序
func (s *Service) Items() ([]Item, error) {
	var items []Item
	if err := s.store.DB().Order("star desc, id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("无法读取奖池: %w", err)
	}
	return items, nil
}

// AddItem 向奖池添加奖品，星级限定3~6
func (s *Service) AddItem(name string, star int, description string) (*Item, string, error) {
	if star < 3 || star > 6 {
		return nil, ReasonInvalidStar, nil
	}
	item := Item{Name: name, Star: star, Description: description}
	if err := s.store.DB().Create(&item).Error; err != nil {
		return nil, "", fmt.Errorf("无法添加奖品: %w", err)
	}
	return &item, "", nil
}

// DeleteItem 从奖池删除奖品
func (s *Service) DeleteItem(itemID uint) (bool, error) {
	result := s.store.DB().Delete(&Item{}, itemID)
	if result.Error != nil {
		return false, fmt.Errorf("无法删除奖品 %d: %w", itemID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RecordView 是带奖品信息的抽卡记录
type RecordView struct {
	DrawTime    time.Time `json:"draw_time"`
	Name        string    `json:"name"`
	Star        int       `json:"star"`
	Description string    `json:"description"`
}

// RecentRecords 返回用户最近的抽卡记录
func (s *Service) RecentRecords(userID uint, limit int) ([]RecordView, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []RecordView
	err := s.store.DB().
		Table("gacha_records").
		Select("gacha_records.draw_time, gacha_items.name, gacha_items.star, gacha_items.description").
		Joins("JOIN gacha_items ON gacha_records.item_id = gacha_items.id").
		Where("gacha_records.user_id = ?", userID).
		Order("gacha_records.draw_time desc, gacha_records.id desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("无法读取抽卡记录: %w", err)
	}
	return rows, nil
}

// StatsFor 返回用户的保底状态，没有记录时返回零值
func (s *Service) StatsFor(userID uint) (*PityInfo, error) {
	count, pity, err := loadStats(s.store.DB(), userID)
	if err != nil {
		return nil, fmt.Errorf("无法读取保底状态: %w", err)
	}
	return &PityInfo{NoSixStarCount: count, PityRate: pity}, nil
}
