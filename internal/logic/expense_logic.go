package logic

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/blues/efs/internal/model"
	"gorm.io/gorm"
)

// ExpenseLogic 支出对账业务逻辑
// 外部审批流程批准支出后调用，把实际支出折算进对应的支出计划
type ExpenseLogic struct {
	db *gorm.DB

	// MaxRetries 乐观锁冲突重试上限，0 表示使用默认值
	MaxRetries int
}

// ExpenseApplication 一笔支出入账的结果
type ExpenseApplication struct {
	Expense            *model.ExpenseModel     `json:"expense"`
	Plan               *model.ExpensePlanModel `json:"plan,omitempty"`
	Variance           int64                   `json:"variance"`
	VariancePercentage float64                 `json:"variance_percentage"`
}

// NewExpenseLogic 创建支出对账业务逻辑
func NewExpenseLogic(db *gorm.DB) *ExpenseLogic {
	return &ExpenseLogic{db: db}
}

// CreatePlan 创建支出计划条目
func (e *ExpenseLogic) CreatePlan(plan *model.ExpensePlanModel) error {
	if plan.EventId == 0 {
		return errors.New("活动ID不能为空")
	}
	if plan.Name == "" {
		return errors.New("计划名称不能为空")
	}
	if plan.EstimatedAmount <= 0 {
		return fmt.Errorf("%w: 预算金额必须大于0", model.ErrInvalidAmount)
	}

	var event model.EventModel
	if err := e.db.First(&event, plan.EventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: 活动 %d", model.ErrNotFound, plan.EventId)
		}
		return err
	}
	if event.Status.IsTerminal() {
		return fmt.Errorf("%w: 活动已结束，无法新增支出计划", model.ErrInvalidTransition)
	}

	plan.ActualAmount = 0
	plan.Status = model.PlanStatusPlanned
	plan.IsApproved = false
	return e.db.Create(plan).Error
}

// GetEventPlans 获取活动的支出计划列表
func (e *ExpenseLogic) GetEventPlans(eventId int64) ([]model.ExpensePlanModel, error) {
	var plans []model.ExpensePlanModel
	if err := e.db.Where("event_id = ?", eventId).Order("id").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("获取支出计划列表失败: %w", err)
	}
	return plans, nil
}

// ApprovePlan 审批支出计划，不移动任何金额
func (e *ExpenseLogic) ApprovePlan(planId, approverId int64) (*model.ExpensePlanModel, error) {
	var plan model.ExpensePlanModel
	if err := e.db.First(&plan, planId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 支出计划 %d", model.ErrNotFound, planId)
		}
		return nil, err
	}
	if plan.Status == model.PlanStatusCancelled {
		return nil, fmt.Errorf("%w: 支出计划已取消", model.ErrInvalidTransition)
	}

	if err := e.db.Model(&plan).Updates(map[string]interface{}{
		"is_approved": true,
		"approved_by": approverId,
	}).Error; err != nil {
		return nil, err
	}
	plan.IsApproved = true
	plan.ApprovedBy = approverId
	return &plan, nil
}

// ApplyExpense 将一笔已批准支出入账
// planId 为空表示计划外支出，只计入活动总支出，不产生计划级偏差
func (e *ExpenseLogic) ApplyExpense(eventId int64, planId *int64, amount int64, description string, approverId int64) (*ExpenseApplication, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: 支出金额不能为负数", model.ErrInvalidAmount)
	}

	var event model.EventModel
	if err := e.db.First(&event, eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 活动 %d", model.ErrNotFound, eventId)
		}
		return nil, err
	}
	if event.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: 活动已结束，无法入账支出", model.ErrInvalidTransition)
	}

	expense := &model.ExpenseModel{
		EventId:        eventId,
		PlanId:         planId,
		Amount:         amount,
		Description:    description,
		ApprovalStatus: model.ApprovalStatusApproved,
		ApprovedBy:     approverId,
	}

	result := &ExpenseApplication{Expense: expense}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		if planId == nil {
			return nil
		}

		plan, err := e.accumulatePlan(tx, *planId, amount)
		if err != nil {
			return err
		}
		result.Plan = plan
		result.Variance = plan.Variance()
		result.VariancePercentage = plan.VariancePercentage()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// accumulatePlan 累加计划的实际支出并推进计划状态
// 与物品台账相同的版本号条件更新，防止并发下的丢失更新
func (e *ExpenseLogic) accumulatePlan(db *gorm.DB, planId int64, amount int64) (*model.ExpensePlanModel, error) {
	maxRetries := e.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		var plan model.ExpensePlanModel
		if err := db.First(&plan, planId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: 支出计划 %d", model.ErrNotFound, planId)
			}
			return nil, err
		}
		if plan.Status == model.PlanStatusCancelled {
			return nil, fmt.Errorf("%w: 支出计划已取消", model.ErrInvalidTransition)
		}

		newAmount := plan.ActualAmount + amount
		newStatus := planStatusFor(newAmount, plan.EstimatedAmount)

		res := db.Model(&model.ExpensePlanModel{}).
			Where("id = ? AND version = ?", plan.Id, plan.Version).
			Updates(map[string]interface{}{
				"actual_amount": newAmount,
				"status":        newStatus,
				"version":       plan.Version + 1,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			time.Sleep(time.Duration(rand.Intn(200)+50) * time.Microsecond)
			continue
		}

		plan.ActualAmount = newAmount
		plan.Status = newStatus
		plan.Version++
		return &plan, nil
	}

	return nil, fmt.Errorf("%w: 支出计划 %d 入账重试 %d 次失败", model.ErrConcurrencyConflict, planId, maxRetries)
}

// CancelPlan 取消支出计划，之后不再接受入账
func (e *ExpenseLogic) CancelPlan(planId int64) (*model.ExpensePlanModel, error) {
	var plan model.ExpensePlanModel
	if err := e.db.First(&plan, planId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 支出计划 %d", model.ErrNotFound, planId)
		}
		return nil, err
	}
	if plan.Status == model.PlanStatusCompleted || plan.Status == model.PlanStatusCancelled {
		return nil, fmt.Errorf("%w: 支出计划处于 %s 状态", model.ErrInvalidTransition, plan.Status)
	}

	if err := e.db.Model(&plan).Update("status", model.PlanStatusCancelled).Error; err != nil {
		return nil, err
	}
	plan.Status = model.PlanStatusCancelled
	return &plan, nil
}

// planStatusFor 按实际支出推进计划状态
func planStatusFor(actualAmount, estimatedAmount int64) model.PlanStatus {
	switch {
	case actualAmount <= 0:
		return model.PlanStatusPlanned
	case actualAmount >= estimatedAmount:
		return model.PlanStatusCompleted
	default:
		return model.PlanStatusInProgress
	}
}
