package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// FloatValues 以JSON存储的浮点数列表
type FloatValues []float64

// Value 实现 driver.Valuer 接口
func (v FloatValues) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan 实现 sql.Scanner 接口
func (v *FloatValues) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		strVal, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(strVal)
	}
	return json.Unmarshal(bytes, v)
}

// DeviceEvent 显示屏上报事件
// 触摸坐标和传感器读数经关联器配对换算后落库。
type DeviceEvent struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"index;not null" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 事件内容
	Kind   string      `gorm:"type:varchar(20);index;not null" json:"kind"` // 事件类型 (click/analog/temperature/voltage)
	Values FloatValues `gorm:"type:json" json:"values"`                     // 换算后的数值列表，首元素为派生读数

	// 时间
	Timestamp int64 `gorm:"index" json:"timestamp"` // Unix时间戳（毫秒）
}

// TableName 指定表名
func (DeviceEvent) TableName() string {
	return "device_events"
}

// BeforeCreate 创建前的钩子
func (e *DeviceEvent) BeforeCreate(tx *gorm.DB) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}
	return nil
}

// DeviceEventQuery 查询参数
type DeviceEventQuery struct {
	Kind      string     `json:"kind,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
	OrderBy   string     `json:"order_by,omitempty"`
}

// DeviceEventStats 统计信息
type DeviceEventStats struct {
	TotalCount       int64 `json:"total_count"`
	TotalClick       int64 `json:"total_click"`
	TotalAnalog      int64 `json:"total_analog"`
	TotalTemperature int64 `json:"total_temperature"`
	TotalVoltage     int64 `json:"total_voltage"`
}
