package gacha

import "time"

// Item 是奖池中的一个奖品。星级3~6，6星最稀有。
// 奖池是静态目录，由管理操作维护。
type Item struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Star        int       `gorm:"not null;index" json:"star"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
}

func (Item) TableName() string {
	return "gacha_items"
}

// Record 是一条抽卡记录，只追加不修改。
// 用户对某个奖品的持有数 = 该 (user, item) 组合的记录数，
// 第二条及以后的记录视为重复获得。
type Record struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	ItemID   uint      `gorm:"index;not null" json:"item_id"`
	DrawTime time.Time `json:"draw_time"`
}

func (Record) TableName() string {
	return "gacha_records"
}

// Stats 是每个用户一行的保底状态。
// 抽到6星时整行重置为 (0, 0.0)。
type Stats struct {
	UserID         uint    `gorm:"primarykey" json:"user_id"`
	NoSixStarCount int     `json:"no_six_star_count"`
	PityRate       float64 `json:"pity_rate"`
}

func (Stats) TableName() string {
	return "gacha_stats"
}
