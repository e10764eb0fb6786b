package model

import (
	"time"
)

// ExpenseModel 支出记录，由外部审批流程批准后入账
type ExpenseModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventId int64 `json:"event_id" gorm:"not null;index"`

	// 计划外支出时为空
	PlanId *int64 `json:"plan_id" gorm:"index"`

	Amount      int64  `json:"amount" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// 只有 approved 状态的支出参与实际支出统计
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"default:'pending'"`
	ApprovedBy     int64          `json:"approved_by"`
}

// ApprovalStatus 支出审批状态
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"  // 待审批
	ApprovalStatusApproved ApprovalStatus = "approved" // 已批准
	ApprovalStatusRejected ApprovalStatus = "rejected" // 已驳回
)

// TableName 自定义表名
func (ExpenseModel) TableName() string {
	return "expense"
}
