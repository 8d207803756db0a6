package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wfunc/display-service/internal/models"
	"gorm.io/gorm"
)

// RecordingRepository 录制仓储接口
type RecordingRepository interface {
	BaseRepository
	Create(ctx context.Context, recording *models.Recording) error
	Update(ctx context.Context, recording *models.Recording) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Recording, error)
	FindByName(ctx context.Context, name string) (*models.Recording, error)
	List(ctx context.Context, query *models.RecordingQuery) ([]*models.Recording, int64, error)
	MarkReplayed(ctx context.Context, id uint) error
}

// recordingRepo 录制仓储实现
type recordingRepo struct {
	*BaseRepo
}

// NewRecordingRepository 创建录制仓储
func NewRecordingRepository(db *gorm.DB) RecordingRepository {
	return &recordingRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 保存录制
func (r *recordingRepo) Create(ctx context.Context, recording *models.Recording) error {
	return r.db.WithContext(ctx).Create(recording).Error
}

// Update 更新录制
func (r *recordingRepo) Update(ctx context.Context, recording *models.Recording) error {
	return r.db.WithContext(ctx).Save(recording).Error
}

// Delete 删除录制（软删除）
func (r *recordingRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Recording{}, id).Error
}

// FindByID 根据ID查找录制
func (r *recordingRepo) FindByID(ctx context.Context, id uint) (*models.Recording, error) {
	var recording models.Recording
	err := r.db.WithContext(ctx).First(&recording, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("录制不存在")
		}
		return nil, err
	}
	return &recording, nil
}

// FindByName 根据名称查找录制
func (r *recordingRepo) FindByName(ctx context.Context, name string) (*models.Recording, error) {
	var recording models.Recording
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&recording).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("录制不存在")
		}
		return nil, err
	}
	return &recording, nil
}

// List 查询录制列表
// 列表结果不携带指令流本体，按需用FindByID取回。
func (r *recordingRepo) List(ctx context.Context, query *models.RecordingQuery) ([]*models.Recording, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Recording{})

	if query.Name != "" {
		db = db.Where("name LIKE ?", "%"+query.Name+"%")
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
	db = db.Order(orderBy).Omit("data")

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	if query.Offset > 0 {
		db = db.Offset(query.Offset)
	}

	var recordings []*models.Recording
	if err := db.Find(&recordings).Error; err != nil {
		return nil, 0, err
	}
	return recordings, total, nil
}

// MarkReplayed 记录一次回放
func (r *recordingRepo) MarkReplayed(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Recording{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"replay_count":   gorm.Expr("replay_count + 1"),
			"last_replay_at": now,
		}).Error
}
