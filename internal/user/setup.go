package user

import (
	"fmt"

	"gorm.io/gorm"
)

// defaultNames 是首次运行时创建的两个默认用户
var defaultNames = []string{"玖", "未"}

// EnsureDefaultUsers 在首次运行时创建默认用户，已存在则跳过
func EnsureDefaultUsers(db *gorm.DB) error {
	for _, name := range defaultNames {
		var count int64
		if err := db.Model(&User{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("无法检查默认用户 %s: %w", name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&User{Name: name, Level: 1}).Error; err != nil {
			return fmt.Errorf("无法创建默认用户 %s: %w", name, err)
		}
	}
	return nil
}
