package model

import (
	"time"
)

// EventModel 筹款活动模型
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	Location    string `json:"location"`

	// 筹款信息
	TargetAmount int64 `json:"target_amount" gorm:"not null" binding:"required,min=0"`
	Budget       int64 `json:"budget" gorm:"default:0" binding:"min=0"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 状态
	Status EventStatus `json:"status" gorm:"default:'planned'"`

	// 组织者信息
	OrganizerId   int64  `json:"organizer_id" gorm:"not null"`
	OrganizerName string `json:"organizer_name"`

	// 志愿者积分发放标记，完成活动时写入一次
	PointsDistributedAt *time.Time `json:"points_distributed_at"`
}

// EventStatus 活动状态
type EventStatus string

const (
	EventStatusPlanned   EventStatus = "planned"   // 筹备中
	EventStatusOngoing   EventStatus = "ongoing"   // 进行中
	EventStatusCompleted EventStatus = "completed" // 已完成
	EventStatusCancelled EventStatus = "cancelled" // 已取消
)

// IsTerminal 是否处于终态
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusCompleted || s == EventStatusCancelled
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
