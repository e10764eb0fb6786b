package model

import (
	"time"
)

// DonationModel 捐赠记录，由外部捐赠服务确认后写入
type DonationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventId int64 `json:"event_id" gorm:"not null;index"`

	// 定向捐赠时指向具体物品，通用捐赠为空
	EventItemId  *int64 `json:"event_item_id" gorm:"index"`
	ItemQuantity int    `json:"item_quantity" gorm:"default:0"`

	Amount      int64  `json:"amount" gorm:"not null"`
	DonorName   string `json:"donor_name"`
	PaymentMode string `json:"payment_mode"`
	Reference   string `json:"reference" gorm:"uniqueIndex"`

	// 只有 completed 状态的捐赠参与台账统计
	Status DonationStatus `json:"status" gorm:"default:'pending'"`
}

// DonationStatus 捐赠状态
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"   // 待支付
	DonationStatusCompleted DonationStatus = "completed" // 已到账
	DonationStatusFailed    DonationStatus = "failed"    // 支付失败
)

// TableName 自定义表名
func (DonationModel) TableName() string {
	return "donation"
}
