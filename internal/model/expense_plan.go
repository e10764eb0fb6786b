package model

import (
	"time"

	"gorm.io/gorm"
)

// ExpensePlanModel 活动支出计划条目
type ExpensePlanModel struct {
	Id        int64          `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	EventId int64 `json:"event_id" gorm:"not null;index"`

	// 基本信息
	Name     string `json:"name" gorm:"not null" binding:"required"`
	Category string `json:"category"`

	// 预算与实际支出
	EstimatedAmount int64 `json:"estimated_amount" gorm:"not null" binding:"required,min=1"`
	ActualAmount    int64 `json:"actual_amount" gorm:"default:0"`

	// 状态
	Status PlanStatus `json:"status" gorm:"default:'planned'"`

	// 审批信息，审批通过后实际支出才允许入账
	IsApproved bool  `json:"is_approved" gorm:"default:false"`
	ApprovedBy int64 `json:"approved_by"`

	// 乐观锁版本号
	Version int64 `json:"version" gorm:"default:0"`
}

// PlanStatus 支出计划状态
type PlanStatus string

const (
	PlanStatusPlanned    PlanStatus = "planned"     // 已计划
	PlanStatusInProgress PlanStatus = "in_progress" // 执行中
	PlanStatusCompleted  PlanStatus = "completed"   // 已完成
	PlanStatusCancelled  PlanStatus = "cancelled"   // 已取消
)

// Variance 支出偏差，正数表示超支
func (m *ExpensePlanModel) Variance() int64 {
	return m.ActualAmount - m.EstimatedAmount
}

// VariancePercentage 支出偏差百分比，预算为0时返回0
func (m *ExpensePlanModel) VariancePercentage() float64 {
	if m.EstimatedAmount <= 0 {
		return 0
	}
	return float64(m.Variance()) / float64(m.EstimatedAmount) * 100
}

// TableName 自定义表名
func (ExpensePlanModel) TableName() string {
	return "expense_plan"
}
