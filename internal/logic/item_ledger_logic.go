package logic

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/blues/efs/internal/logger"
	"github.com/blues/efs/internal/model"
	"gorm.io/gorm"
)

// defaultMaxRetries 乐观锁冲突的默认重试上限
const defaultMaxRetries = 20

// ItemLedgerLogic 物品台账业务逻辑
// 捐赠入账的唯一写入口，保证 donated_amount 永远不超过 total_amount
type ItemLedgerLogic struct {
	db *gorm.DB

	// MaxRetries 乐观锁冲突重试上限，0 表示使用默认值
	MaxRetries int
}

// ItemFulfillment 物品筹款对账视图
type ItemFulfillment struct {
	Item                 *model.EventItemModel `json:"item"`
	TotalDonations       int64                 `json:"total_donations"`
	TotalQuantityDonated int                   `json:"total_quantity_donated"`
}

// NewItemLedgerLogic 创建物品台账业务逻辑
func NewItemLedgerLogic(db *gorm.DB) *ItemLedgerLogic {
	return &ItemLedgerLogic{db: db}
}

// CreateItem 创建筹款物品
func (l *ItemLedgerLogic) CreateItem(item *model.EventItemModel) error {
	if err := l.validateItem(item); err != nil {
		return err
	}

	// 校验所属活动
	var event model.EventModel
	if err := l.db.First(&event, item.EventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 活动 %d", model.ErrNotFound, item.EventId)
		}
		return err
	}
	if event.Status.IsTerminal() {
		return fmt.Errorf("%w: 活动已结束，无法新增物品", model.ErrInvalidTransition)
	}

	// 未显式指定总金额时按单价×数量计算
	if item.TotalAmount == 0 {
		item.TotalAmount = item.UnitPrice * int64(item.TotalQuantity)
	}
	item.DonatedAmount = 0
	item.DonatedQuantity = 0
	item.Status = model.ItemStatusPending

	return l.db.Create(item).Error
}

// GetEventItems 获取活动的筹款物品列表
func (l *ItemLedgerLogic) GetEventItems(eventId int64) ([]model.EventItemModel, error) {
	var items []model.EventItemModel
	if err := l.db.Where("event_id = ?", eventId).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("获取物品列表失败: %w", err)
	}
	return items, nil
}

// DeleteItem 删除筹款物品（软删除，保留捐赠记录引用）
func (l *ItemLedgerLogic) DeleteItem(itemId int64) error {
	res := l.db.Delete(&model.EventItemModel{}, itemId)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: 物品 %d", model.ErrNotFound, itemId)
	}
	return nil
}

// ApplyDonation 将已确认捐赠计入物品台账
// 超出目标的部分按封顶规则截断，返回被截断的金额供审计
func (l *ItemLedgerLogic) ApplyDonation(itemId int64, amount int64, quantity int) (*model.EventItemModel, int64, error) {
	return l.applyDonation(l.db, itemId, amount, quantity)
}

// applyDonation 在指定的 db 句柄（可能是事务）上执行入账
// 读取-计算-条件写入，版本号不匹配时重试
func (l *ItemLedgerLogic) applyDonation(db *gorm.DB, itemId int64, amount int64, quantity int) (*model.EventItemModel, int64, error) {
	if amount < 0 || quantity < 0 {
		return nil, 0, fmt.Errorf("%w: amount=%d quantity=%d", model.ErrInvalidAmount, amount, quantity)
	}

	maxRetries := l.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		var item model.EventItemModel
		if err := db.First(&item, itemId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("%w: 物品 %d", model.ErrNotFound, itemId)
			}
			return nil, 0, err
		}

		// 封顶而不是拒绝：超出部分从物品口径截掉，但仍保留在捐赠总账中
		newAmount := item.DonatedAmount + amount
		overflow := int64(0)
		if newAmount > item.TotalAmount {
			overflow = newAmount - item.TotalAmount
			newAmount = item.TotalAmount
		}
		newQuantity := item.DonatedQuantity + quantity
		if newQuantity > item.TotalQuantity {
			newQuantity = item.TotalQuantity
		}
		newStatus := model.ComputeItemStatus(newAmount, item.TotalAmount)

		// 带版本号的条件更新，避免并发下的丢失更新
		res := db.Model(&model.EventItemModel{}).
			Where("id = ? AND version = ?", item.Id, item.Version).
			Updates(map[string]interface{}{
				"donated_amount":   newAmount,
				"donated_quantity": newQuantity,
				"status":           newStatus,
				"version":          item.Version + 1,
			})
		if res.Error != nil {
			return nil, 0, res.Error
		}
		if res.RowsAffected == 0 {
			// 版本冲突，退避后重试
			time.Sleep(time.Duration(rand.Intn(200)+50) * time.Microsecond)
			continue
		}

		if overflow > 0 {
			logger.Warn("物品 %d 已筹满，本次捐赠截断 %d", item.Id, overflow)
		}

		item.DonatedAmount = newAmount
		item.DonatedQuantity = newQuantity
		item.Status = newStatus
		item.Version++
		return &item, overflow, nil
	}

	return nil, 0, fmt.Errorf("%w: 物品 %d 入账重试 %d 次失败", model.ErrConcurrencyConflict, itemId, maxRetries)
}

// GetFulfillment 获取物品筹款对账视图
// 直接对捐赠记录求和，与缓存的 donated_amount 独立，两者不一致说明存在丢失更新
func (l *ItemLedgerLogic) GetFulfillment(itemId int64) (*ItemFulfillment, error) {
	var item model.EventItemModel
	if err := l.db.First(&item, itemId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 物品 %d", model.ErrNotFound, itemId)
		}
		return nil, err
	}

	var totalDonations int64
	if err := l.db.Model(&model.DonationModel{}).
		Where("event_item_id = ? AND status = ?", itemId, model.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalDonations).Error; err != nil {
		return nil, fmt.Errorf("获取物品捐赠总额失败: %w", err)
	}

	var totalQuantity int64
	if err := l.db.Model(&model.DonationModel{}).
		Where("event_item_id = ? AND status = ?", itemId, model.DonationStatusCompleted).
		Select("COALESCE(SUM(item_quantity), 0)").
		Scan(&totalQuantity).Error; err != nil {
		return nil, fmt.Errorf("获取物品捐赠数量失败: %w", err)
	}

	return &ItemFulfillment{
		Item:                 &item,
		TotalDonations:       totalDonations,
		TotalQuantityDonated: int(totalQuantity),
	}, nil
}

// validateItem 验证物品数据
func (l *ItemLedgerLogic) validateItem(item *model.EventItemModel) error {
	if item.EventId == 0 {
		return errors.New("活动ID不能为空")
	}
	if item.Name == "" {
		return errors.New("物品名称不能为空")
	}
	if item.UnitPrice <= 0 {
		return fmt.Errorf("%w: 单价必须大于0", model.ErrInvalidAmount)
	}
	if item.TotalQuantity < 1 {
		return fmt.Errorf("%w: 数量必须至少为1", model.ErrInvalidAmount)
	}
	return nil
}
