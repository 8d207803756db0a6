package models

import (
	"time"

	"gorm.io/gorm"
)

// Recording 指令录制
// 保存一段录制下来的显示屏指令流，可在之后原样回放。
type Recording struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"index;not null" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 基础信息
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 录制名称
	Description string `gorm:"type:varchar(255)" json:"description,omitempty"`     // 描述

	// 指令流内容
	Data []byte `gorm:"type:blob" json:"-"`    // 原始指令字节流
	Size int    `gorm:"default:0" json:"size"` // 字节数

	// 回放统计
	ReplayCount  int        `gorm:"default:0" json:"replay_count"` // 回放次数
	LastReplayAt *time.Time `json:"last_replay_at,omitempty"`      // 最近回放时间
}

// TableName 指定表名
func (Recording) TableName() string {
	return "recordings"
}

// BeforeCreate 创建前的钩子
func (r *Recording) BeforeCreate(tx *gorm.DB) error {
	if r.Size == 0 {
		r.Size = len(r.Data)
	}
	return nil
}

// RecordingQuery 查询参数
type RecordingQuery struct {
	Name      string     `json:"name,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
	OrderBy   string     `json:"order_by,omitempty"`
}
