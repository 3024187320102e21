package database

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration 是一次带版本号的结构变更。
// 所有迁移在启动时按版本号升序执行一次，每一步都应是幂等的。
type Migration struct {
	Version int
	Name    string
	Run     func(tx *gorm.DB) error
}

// schemaVersion 记录已经应用过的迁移，避免重复执行
type schemaVersion struct {
	Version   int `gorm:"primarykey"`
	Name      string
	AppliedAt time.Time
}

func (schemaVersion) TableName() string {
	return "schema_versions"
}

// Migrate 按版本号顺序应用尚未执行过的迁移。
// 每个迁移单独运行在一个事务中，失败即中止后续迁移。
func Migrate(db *gorm.DB, migrations []Migration) error {
	if err := db.AutoMigrate(&schemaVersion{}); err != nil {
		return fmt.Errorf("无法创建迁移版本表: %w", err)
	}

	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	for _, m := range sorted {
		var applied int64
		if err := db.Model(&schemaVersion{}).Where("version = ?", m.Version).Count(&applied).Error; err != nil {
			return fmt.Errorf("无法读取迁移版本 %d: %w", m.Version, err)
		}
		if applied > 0 {
			continue
		}

		mig := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaVersion{
				Version:   mig.Version,
				Name:      mig.Name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("迁移 %d (%s) 失败: %w", m.Version, m.Name, err)
		}
		fmt.Printf("数据库迁移 %d (%s) 已应用。\n", m.Version, m.Name)
	}

	return nil
}
