package model

import (
	"time"

	"gorm.io/gorm"
)

// EventItemModel 活动筹款物品（台账条目）
type EventItemModel struct {
	Id        int64          `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	EventId int64 `json:"event_id" gorm:"not null;index"`

	// 基本信息
	Name        string `json:"name" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`

	// 筹款目标
	UnitPrice     int64 `json:"unit_price" gorm:"not null" binding:"required,min=1"`
	TotalQuantity int   `json:"total_quantity" gorm:"not null" binding:"required,min=1"`
	TotalAmount   int64 `json:"total_amount" gorm:"not null"`

	// 已筹数据，只能由台账逻辑修改
	DonatedAmount   int64 `json:"donated_amount" gorm:"default:0"`
	DonatedQuantity int   `json:"donated_quantity" gorm:"default:0"`

	// 状态由 DonatedAmount 与 TotalAmount 推导，不能独立设置
	Status ItemStatus `json:"status" gorm:"default:'pending'"`

	// 乐观锁版本号
	Version int64 `json:"version" gorm:"default:0"`
}

// ItemStatus 物品筹款状态
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"   // 未开始
	ItemStatusPartial   ItemStatus = "partial"   // 部分完成
	ItemStatusCompleted ItemStatus = "completed" // 已筹满
)

// ComputeItemStatus 按已筹金额推导物品状态
func ComputeItemStatus(donatedAmount, totalAmount int64) ItemStatus {
	switch {
	case donatedAmount <= 0:
		return ItemStatusPending
	case donatedAmount >= totalAmount:
		return ItemStatusCompleted
	default:
		return ItemStatusPartial
	}
}

// CompletionPercentage 物品筹款完成百分比
func (m *EventItemModel) CompletionPercentage() float64 {
	if m.TotalAmount <= 0 {
		return 0
	}
	return float64(m.DonatedAmount) / float64(m.TotalAmount) * 100
}

// TableName 自定义表名
func (EventItemModel) TableName() string {
	return "event_item"
}
