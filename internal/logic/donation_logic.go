package logic

import (
	"errors"
	"fmt"

	"github.com/blues/efs/internal/model"
	"gorm.io/gorm"
)

// DonationLogic 捐赠记录业务逻辑
// 外部捐赠服务在支付确认后调用，是捐赠进入台账的唯一入口
type DonationLogic struct {
	db         *gorm.DB
	itemLedger *ItemLedgerLogic
}

// NewDonationLogic 创建捐赠记录业务逻辑
func NewDonationLogic(db *gorm.DB, itemLedger *ItemLedgerLogic) *DonationLogic {
	return &DonationLogic{db: db, itemLedger: itemLedger}
}

// RecordDonation 记录一笔捐赠，已确认的定向捐赠同时计入物品台账
// 记录与入账在同一事务中完成，入账失败则整笔回滚
func (d *DonationLogic) RecordDonation(donation *model.DonationModel) (overflow int64, err error) {
	if err := d.validateDonation(donation); err != nil {
		return 0, err
	}

	// 校验所属活动
	var event model.EventModel
	if err := d.db.First(&event, donation.EventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: 活动 %d", model.ErrNotFound, donation.EventId)
		}
		return 0, err
	}
	if event.Status.IsTerminal() {
		return 0, fmt.Errorf("%w: 活动已结束，无法接受捐赠", model.ErrInvalidTransition)
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(donation).Error; err != nil {
			return err
		}

		// 只有已到账的定向捐赠才进物品台账
		if donation.Status == model.DonationStatusCompleted && donation.EventItemId != nil {
			item, o, err := d.itemLedger.applyDonation(tx, *donation.EventItemId, donation.Amount, donation.ItemQuantity)
			if err != nil {
				return err
			}
			if item.EventId != donation.EventId {
				return fmt.Errorf("%w: 物品 %d 不属于活动 %d", model.ErrNotFound, item.Id, donation.EventId)
			}
			overflow = o
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return overflow, nil
}

// GetEventDonations 获取活动捐赠记录（分页）
func (d *DonationLogic) GetEventDonations(eventId int64, page, pageSize int) ([]model.DonationModel, int64, error) {
	var donations []model.DonationModel
	var total int64

	if err := d.db.Model(&model.DonationModel{}).Where("event_id = ?", eventId).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := d.db.Where("event_id = ?", eventId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

// validateDonation 验证捐赠数据
func (d *DonationLogic) validateDonation(donation *model.DonationModel) error {
	if donation.EventId == 0 {
		return errors.New("活动ID不能为空")
	}
	if donation.Amount < 0 {
		return fmt.Errorf("%w: 捐赠金额不能为负数", model.ErrInvalidAmount)
	}
	if donation.ItemQuantity < 0 {
		return fmt.Errorf("%w: 捐赠数量不能为负数", model.ErrInvalidAmount)
	}
	if donation.Status == "" {
		donation.Status = model.DonationStatusPending
	}
	return nil
}
