package gacha

import (
	"fmt"

	"gorm.io/gorm"
)

// defaultItem 描述首次运行时预置的奖池奖品
type defaultItem struct {
	name        string
	star        int
	description string
}

var defaultItems = []defaultItem{
	// 六星（最稀有）
	{"出去睡觉", 6, "嗯,就是可以立刻找一天和小未出去睡大床"},
	{"小裙子代金券", 6, "可以最多代200块~"},
	{"罗小黑的小手办一个", 6, "手办你得到了恭喜你!"},

	// 五星
	{"蟹蟹!!!参与!!!", 5, "请你吃螃蟹!哈哈哈哈!!!"},
	{"请你喝库迪~", 5, "咖啡咖啡咖啡咖啡"},
	{"罗小黑的小卡片", 5, "很好的小卡片,让你旋转"},

	// 四星
	{"谢谢参与!!!", 4, "这个是很认真的蟹蟹参与!!!"},
	{"谢谢参与!!!", 4, "这个是很认真的蟹蟹参与!!!"},
	{"谢谢参与!!!", 4, "这个是很认真的蟹蟹参与!!!"},
	{"谢谢参与!!!", 4, "这个是很认真的蟹蟹参与!!!"},
	{"谢谢参与!!!", 4, "这个是很认真的蟹蟹参与!!!"},

	// 三星
	{"谢谢参与", 3, "是的就是蟹蟹参与"},
	{"谢谢参与", 3, "是的就是蟹蟹参与"},
	{"谢谢参与", 3, "是的就是蟹蟹参与"},
	{"谢谢参与", 3, "是的就是蟹蟹参与"},
	{"谢谢参与", 3, "是的就是蟹蟹参与"},
}

// EnsureDefaultItems 在奖池为空时填入默认奖品，保证每个星级都有奖品可抽
func EnsureDefaultItems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Item{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法检查奖池: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, d := range defaultItems {
		item := Item{Name: d.name, Star: d.star, Description: d.description}
		if err := db.Create(&item).Error; err != nil {
			return fmt.Errorf("无法创建默认奖品: %w", err)
		}
	}

	fmt.Printf("奖池为空，已填入 %d 个默认奖品。\n", len(defaultItems))
	return nil
}
