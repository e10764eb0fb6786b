package scheduler

import (
	"sync"
	"time"

	"github.com/blues/efs/internal/config"
	"github.com/blues/efs/internal/logger"
	"github.com/blues/efs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// LedgerAuditJob 台账对账任务
// 把每个物品缓存的已筹金额与捐赠记录的求和对比，不一致说明出现过丢失更新
type LedgerAuditJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewLedgerAuditJob 创建台账对账任务
func NewLedgerAuditJob(db *gorm.DB, cfg *config.Config) *LedgerAuditJob {
	return &LedgerAuditJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *LedgerAuditJob) GetName() string {
	return "ledger_audit"
}

// GetSchedule 获取调度配置
func (j *LedgerAuditJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.AuditInterval) * time.Second)
}

// Execute 执行对账
func (j *LedgerAuditJob) Execute() {
	logger.Info("Starting ledger audit")

	var itemIds []int64
	if err := j.db.Model(&model.EventItemModel{}).Pluck("id", &itemIds).Error; err != nil {
		logger.Error("Ledger audit: failed to list items: %v", err)
		return
	}
	if len(itemIds) == 0 {
		return
	}

	poolSize := j.config.Scheduler.AuditPoolSize
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		logger.Error("Ledger audit: failed to create pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, itemId := range itemIds {
		itemId := itemId
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			j.auditItem(itemId)
		})
		if err != nil {
			wg.Done()
			logger.Error("Ledger audit: failed to submit item %d: %v", itemId, err)
		}
	}
	wg.Wait()

	logger.Info("Ledger audit finished, %d items checked", len(itemIds))
}

// auditItem 对账单个物品，返回是否检测到漂移
// 截断策略下缓存金额的预期值是 min(捐赠求和, 目标金额)，偏离即为丢失更新
func (j *LedgerAuditJob) auditItem(itemId int64) bool {
	var item model.EventItemModel
	if err := j.db.First(&item, itemId).Error; err != nil {
		logger.Error("Ledger audit: failed to load item %d: %v", itemId, err)
		return false
	}

	var donated int64
	if err := j.db.Model(&model.DonationModel{}).
		Where("event_item_id = ? AND status = ?", itemId, model.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&donated).Error; err != nil {
		logger.Error("Ledger audit: failed to sum donations for item %d: %v", itemId, err)
		return false
	}

	expected := donated
	if expected > item.TotalAmount {
		expected = item.TotalAmount
	}
	if item.DonatedAmount != expected {
		logger.Error("Ledger audit: item %d drift detected, cached=%d expected=%d (donation sum=%d)",
			itemId, item.DonatedAmount, expected, donated)
		return true
	}
	return false
}
