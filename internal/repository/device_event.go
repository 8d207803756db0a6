package repository

import (
	"context"
	"time"

	"github.com/wfunc/display-service/internal/models"
	"gorm.io/gorm"
)

// DeviceEventRepository 设备事件仓储接口
type DeviceEventRepository interface {
	BaseRepository
	Create(ctx context.Context, event *models.DeviceEvent) error
	CreateBatch(ctx context.Context, events []*models.DeviceEvent) error
	Query(ctx context.Context, query *models.DeviceEventQuery) ([]*models.DeviceEvent, int64, error)
	GetLatest(ctx context.Context, limit int, kind string) ([]*models.DeviceEvent, error)
	GetStats(ctx context.Context, startTime, endTime *time.Time) (*models.DeviceEventStats, error)
	DeleteOld(ctx context.Context, beforeTime time.Time) (int64, error)
}

// deviceEventRepo 设备事件仓储实现
type deviceEventRepo struct {
	*BaseRepo
}

// NewDeviceEventRepository 创建设备事件仓储
func NewDeviceEventRepository(db *gorm.DB) DeviceEventRepository {
	return &deviceEventRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 保存事件
func (r *deviceEventRepo) Create(ctx context.Context, event *models.DeviceEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch 批量保存事件
func (r *deviceEventRepo) CreateBatch(ctx context.Context, events []*models.DeviceEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}

// Query 查询事件
func (r *deviceEventRepo) Query(ctx context.Context, query *models.DeviceEventQuery) ([]*models.DeviceEvent, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.DeviceEvent{})

	if query.Kind != "" {
		db = db.Where("kind = ?", query.Kind)
	}
	if query.StartTime != nil {
		db = db.Where("created_at >= ?", *query.StartTime)
	}
	if query.EndTime != nil {
		db = db.Where("created_at <= ?", *query.EndTime)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	db = db.Order(orderBy)

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	if query.Offset > 0 {
		db = db.Offset(query.Offset)
	}

	var events []*models.DeviceEvent
	if err := db.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetLatest 获取最新事件
func (r *deviceEventRepo) GetLatest(ctx context.Context, limit int, kind string) ([]*models.DeviceEvent, error) {
	var events []*models.DeviceEvent
	db := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}
	err := db.Find(&events).Error
	return events, err
}

// GetStats 获取统计信息
func (r *deviceEventRepo) GetStats(ctx context.Context, startTime, endTime *time.Time) (*models.DeviceEventStats, error) {
	stats := &models.DeviceEventStats{}

	base := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&models.DeviceEvent{})
		if startTime != nil {
			db = db.Where("created_at >= ?", *startTime)
		}
		if endTime != nil {
			db = db.Where("created_at <= ?", *endTime)
		}
		return db
	}

	if err := base().Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		kind string
		dst  *int64
	}{
		{"click", &stats.TotalClick},
		{"analog", &stats.TotalAnalog},
		{"temperature", &stats.TotalTemperature},
		{"voltage", &stats.TotalVoltage},
	}
	for _, c := range counts {
		if err := base().Where("kind = ?", c.kind).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// DeleteOld 删除旧事件
func (r *deviceEventRepo) DeleteOld(ctx context.Context, beforeTime time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", beforeTime).Delete(&models.DeviceEvent{})
	return result.RowsAffected, result.Error
}
