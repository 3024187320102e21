package database

import (
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"
)

// cleanupDelay 是重命名出去的旧数据文件在后台被删除前的等待时间
const cleanupDelay = 2 * time.Second

// Reset 彻底清空数据文件并通过 reinit 重建全部状态。
// 关闭当前连接后优先直接删除数据文件；如果文件仍被占用，
// 则把它重命名出活跃数据集，交给后台协程延迟清理。
// 被移走的文件已不属于活跃数据，清理与后续操作没有顺序要求。
func (h *Handle) Reset(reinit func(db *gorm.DB) error) error {
	if err := h.Close(); err != nil {
		return fmt.Errorf("重置前无法关闭数据库连接: %w", err)
	}

	if _, err := os.Stat(h.path); err == nil {
		if err := os.Remove(h.path); err != nil {
			tempName := fmt.Sprintf("%s.old.%d", h.path, time.Now().Unix())
			if renameErr := os.Rename(h.path, tempName); renameErr != nil {
				return fmt.Errorf("无法删除或重命名数据文件 %s: %w", h.path, renameErr)
			}
			fmt.Printf("原数据文件已重命名为: %s\n", tempName)
			go cleanupOldFile(tempName)
		}
	}

	db, err := openGorm(h.path)
	if err != nil {
		return fmt.Errorf("重置后无法重新打开数据库: %w", err)
	}
	h.db = db

	if err := reinit(h.db); err != nil {
		return fmt.Errorf("重置后重新初始化失败: %w", err)
	}

	fmt.Println("数据库已成功清空并重新初始化")
	return nil
}

// cleanupOldFile 延迟删除重命名出去的旧数据文件
func cleanupOldFile(name string) {
	time.Sleep(cleanupDelay)
	if err := os.Remove(name); err == nil {
		fmt.Printf("已清理旧数据文件: %s\n", name)
	}
}
