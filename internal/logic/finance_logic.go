package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/efs/internal/model"
	"gorm.io/gorm"
)

// FinanceLogic 活动财务汇总业务逻辑
// 只读派生，每次都从当前台账状态计算，没有缓存也没有失效问题
type FinanceLogic struct {
	db *gorm.DB
}

// NewFinanceLogic 创建财务汇总业务逻辑
func NewFinanceLogic(db *gorm.DB) *FinanceLogic {
	return &FinanceLogic{db: db}
}

// FinancialSummary 活动财务摘要
type FinancialSummary struct {
	EventId           int64   `json:"event_id"`
	TargetAmount      int64   `json:"target_amount"`
	Budget            int64   `json:"budget"`
	TotalDonations    int64   `json:"total_donations"`
	TargetAchievement float64 `json:"target_achievement"`
	RemainingAmount   int64   `json:"remaining_amount"`
	TotalExpenses     int64   `json:"total_expenses"`
	BudgetVariance    int64   `json:"budget_variance"`
	AvailableBalance  int64   `json:"available_balance"`
}

// PaymentModeBreakdown 按支付方式的捐赠分布
type PaymentModeBreakdown struct {
	Mode   string `json:"mode"`
	Amount int64  `json:"amount"`
	Count  int64  `json:"count"`
}

// DonationAnalysis 捐赠分析
type DonationAnalysis struct {
	TotalAmount       int64                  `json:"total_amount"`
	GeneralAmount     int64                  `json:"general_amount"`
	ItemAmount        int64                  `json:"item_amount"`
	GeneralPercentage float64                `json:"general_percentage"`
	ItemPercentage    float64                `json:"item_percentage"`
	DonationCount     int64                  `json:"donation_count"`
	AverageDonation   float64                `json:"average_donation"`
	ByPaymentMode     []PaymentModeBreakdown `json:"by_payment_mode"`
}

// ItemCompletion 单个物品的筹款进度
type ItemCompletion struct {
	ItemId               int64            `json:"item_id"`
	Name                 string           `json:"name"`
	TotalAmount          int64            `json:"total_amount"`
	DonatedAmount        int64            `json:"donated_amount"`
	CompletionPercentage float64          `json:"completion_percentage"`
	Status               model.ItemStatus `json:"status"`
}

// ItemAnalysis 物品筹款分析
type ItemAnalysis struct {
	Items                    []ItemCompletion `json:"items"`
	ItemCompletionPercentage float64          `json:"item_completion_percentage"`
	PendingCount             int              `json:"pending_count"`
	PartialCount             int              `json:"partial_count"`
	CompletedCount           int              `json:"completed_count"`
}

// ExpenseAnalysis 支出分析
type ExpenseAnalysis struct {
	TotalEstimated     int64   `json:"total_estimated"`
	TotalActual        int64   `json:"total_actual"`
	Variance           int64   `json:"variance"`
	VariancePercentage float64 `json:"variance_percentage"`
	PlanCount          int     `json:"plan_count"`
	CompletedPlanCount int     `json:"completed_plan_count"`
}

// EventAnalytics 活动财务分析，摘要的超集
type EventAnalytics struct {
	Summary         FinancialSummary `json:"summary"`
	Donations       DonationAnalysis `json:"donations"`
	Items           ItemAnalysis     `json:"items"`
	Expenses        ExpenseAnalysis  `json:"expenses"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Summarize 计算活动财务摘要
func (f *FinanceLogic) Summarize(eventId int64) (*FinancialSummary, error) {
	event, err := f.getEvent(eventId)
	if err != nil {
		return nil, err
	}
	return f.summarize(event)
}

// summarize 基于已加载的活动计算摘要
func (f *FinanceLogic) summarize(event *model.EventModel) (*FinancialSummary, error) {
	var totalDonations int64
	if err := f.db.Model(&model.DonationModel{}).
		Where("event_id = ? AND status = ?", event.Id, model.DonationStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalDonations).Error; err != nil {
		return nil, fmt.Errorf("获取捐赠总额失败: %w", err)
	}

	var totalExpenses int64
	if err := f.db.Model(&model.ExpenseModel{}).
		Where("event_id = ? AND approval_status = ?", event.Id, model.ApprovalStatusApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpenses).Error; err != nil {
		return nil, fmt.Errorf("获取支出总额失败: %w", err)
	}

	// 目标为0时达成率记为0，避免除零
	targetAchievement := float64(0)
	if event.TargetAmount > 0 {
		targetAchievement = float64(totalDonations) / float64(event.TargetAmount) * 100
	}

	remaining := event.TargetAmount - totalDonations
	if remaining < 0 {
		remaining = 0
	}

	return &FinancialSummary{
		EventId:           event.Id,
		TargetAmount:      event.TargetAmount,
		Budget:            event.Budget,
		TotalDonations:    totalDonations,
		TargetAchievement: targetAchievement,
		RemainingAmount:   remaining,
		TotalExpenses:     totalExpenses,
		BudgetVariance:    event.Budget - totalExpenses,
		// 可用余额允许为负，由推荐规则标记而不是截断
		AvailableBalance: totalDonations - totalExpenses,
	}, nil
}

// Analyze 计算活动财务分析
func (f *FinanceLogic) Analyze(eventId int64) (*EventAnalytics, error) {
	event, err := f.getEvent(eventId)
	if err != nil {
		return nil, err
	}

	summary, err := f.summarize(event)
	if err != nil {
		return nil, err
	}

	donations, err := f.analyzeDonations(eventId)
	if err != nil {
		return nil, err
	}

	items, err := f.analyzeItems(eventId)
	if err != nil {
		return nil, err
	}

	expenses, err := f.analyzeExpenses(eventId)
	if err != nil {
		return nil, err
	}

	analytics := &EventAnalytics{
		Summary:   *summary,
		Donations: *donations,
		Items:     *items,
		Expenses:  *expenses,
	}
	analytics.Recommendations = evaluateRecommendations(&analysisContext{
		Event:    event,
		Summary:  *summary,
		Items:    *items,
		Expenses: *expenses,
		Now:      time.Now(),
	})
	return analytics, nil
}

// analyzeDonations 捐赠分析：通用/定向拆分、支付方式分布、平均单笔
func (f *FinanceLogic) analyzeDonations(eventId int64) (*DonationAnalysis, error) {
	base := func() *gorm.DB {
		return f.db.Model(&model.DonationModel{}).
			Where("event_id = ? AND status = ?", eventId, model.DonationStatusCompleted)
	}

	analysis := &DonationAnalysis{ByPaymentMode: []PaymentModeBreakdown{}}

	if err := base().Count(&analysis.DonationCount).Error; err != nil {
		return nil, fmt.Errorf("获取捐赠笔数失败: %w", err)
	}
	if err := base().Select("COALESCE(SUM(amount), 0)").Scan(&analysis.TotalAmount).Error; err != nil {
		return nil, fmt.Errorf("获取捐赠总额失败: %w", err)
	}
	if err := base().Where("event_item_id IS NULL").
		Select("COALESCE(SUM(amount), 0)").Scan(&analysis.GeneralAmount).Error; err != nil {
		return nil, fmt.Errorf("获取通用捐赠总额失败: %w", err)
	}
	analysis.ItemAmount = analysis.TotalAmount - analysis.GeneralAmount

	if analysis.TotalAmount > 0 {
		analysis.GeneralPercentage = float64(analysis.GeneralAmount) / float64(analysis.TotalAmount) * 100
		analysis.ItemPercentage = float64(analysis.ItemAmount) / float64(analysis.TotalAmount) * 100
	}
	if analysis.DonationCount > 0 {
		analysis.AverageDonation = float64(analysis.TotalAmount) / float64(analysis.DonationCount)
	}

	if err := base().
		Select("payment_mode AS mode, COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
		Group("payment_mode").
		Order("amount DESC").
		Scan(&analysis.ByPaymentMode).Error; err != nil {
		return nil, fmt.Errorf("获取支付方式分布失败: %w", err)
	}

	return analysis, nil
}

// analyzeItems 物品分析：逐项完成度、总体完成度、状态计数
func (f *FinanceLogic) analyzeItems(eventId int64) (*ItemAnalysis, error) {
	var items []model.EventItemModel
	if err := f.db.Where("event_id = ?", eventId).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("获取物品列表失败: %w", err)
	}

	analysis := &ItemAnalysis{Items: make([]ItemCompletion, 0, len(items))}

	var totalTarget, totalDonated int64
	for i := range items {
		item := &items[i]
		analysis.Items = append(analysis.Items, ItemCompletion{
			ItemId:               item.Id,
			Name:                 item.Name,
			TotalAmount:          item.TotalAmount,
			DonatedAmount:        item.DonatedAmount,
			CompletionPercentage: item.CompletionPercentage(),
			Status:               item.Status,
		})
		totalTarget += item.TotalAmount
		totalDonated += item.DonatedAmount

		switch item.Status {
		case model.ItemStatusPending:
			analysis.PendingCount++
		case model.ItemStatusPartial:
			analysis.PartialCount++
		case model.ItemStatusCompleted:
			analysis.CompletedCount++
		}
	}

	if totalTarget > 0 {
		analysis.ItemCompletionPercentage = float64(totalDonated) / float64(totalTarget) * 100
	}

	return analysis, nil
}

// analyzeExpenses 支出分析：预算与实际的总量对比
func (f *FinanceLogic) analyzeExpenses(eventId int64) (*ExpenseAnalysis, error) {
	var plans []model.ExpensePlanModel
	if err := f.db.Where("event_id = ?", eventId).Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("获取支出计划列表失败: %w", err)
	}

	analysis := &ExpenseAnalysis{PlanCount: len(plans)}
	for i := range plans {
		analysis.TotalEstimated += plans[i].EstimatedAmount
		analysis.TotalActual += plans[i].ActualAmount
		if plans[i].Status == model.PlanStatusCompleted {
			analysis.CompletedPlanCount++
		}
	}

	analysis.Variance = analysis.TotalActual - analysis.TotalEstimated
	if analysis.TotalEstimated > 0 {
		analysis.VariancePercentage = float64(analysis.Variance) / float64(analysis.TotalEstimated) * 100
	}

	return analysis, nil
}

// getEvent 加载活动
func (f *FinanceLogic) getEvent(eventId int64) (*model.EventModel, error) {
	var event model.EventModel
	if err := f.db.First(&event, eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 活动 %d", model.ErrNotFound, eventId)
		}
		return nil, err
	}
	return &event, nil
}
