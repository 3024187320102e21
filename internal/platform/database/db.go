package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Handle 是对SQLite数据库连接的显式句柄。
// 它在进程启动时打开一次，注入到各个模块中，进程退出时关闭，
// 不作为包级全局状态向外暴露。
type Handle struct {
	db   *gorm.DB
	path string
}

// Open 打开指定路径的SQLite数据文件并返回句柄
func Open(path string) (*Handle, error) {
	db, err := openGorm(path)
	if err != nil {
		return nil, err
	}
	return &Handle{db: db, path: path}, nil
}

// openGorm 建立GORM连接并应用本项目的连接约定
func openGorm(path string) (*gorm.DB, error) {
	// GORM日志配置：业务日志自己打印，SQL日志保持静默
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Silent,
			Colorful: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("无法打开SQLite数据库 %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取底层数据库连接: %w", err)
	}
	// 单写入者模型：整个进程只使用一条连接，
	// 事务之间天然串行，也保证内存库在测试中表现一致
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("无法启用外键约束: %w", err)
	}

	return db, nil
}

// DB 返回当前活跃的GORM连接
func (h *Handle) DB() *gorm.DB {
	return h.db
}

// Path 返回数据文件路径
func (h *Handle) Path() string {
	return h.path
}

// Close 关闭底层数据库连接
func (h *Handle) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
