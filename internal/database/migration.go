package database

import (
	"fmt"

	"github.com/wfunc/display-service/internal/logger"
	"github.com/wfunc/display-service/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 获取迁移锁，避免多实例同时迁移同一个SQLite文件
	dbPath := getDBPath()
	if dbPath != "" {
		lockFile, err := acquireMigrationLock(dbPath)
		if err != nil {
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile)
	}

	migrationModels := []interface{}{
		&models.Recording{},
		&models.DeviceEvent{},
	}

	logger.Info("开始数据库迁移...")
	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	logger.Info("数据库迁移完成")
	return nil
}

// DropAllTables 删除全部表（仅测试用）
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}
	return DB.Migrator().DropTable(
		&models.Recording{},
		&models.DeviceEvent{},
	)
}
