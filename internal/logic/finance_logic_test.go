package logic

import (
	"testing"

	"github.com/blues/efs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completedDonation 构造一笔已到账捐赠
func completedDonation(eventId int64, amount int64, mode, ref string) *model.DonationModel {
	return &model.DonationModel{
		EventId:     eventId,
		Amount:      amount,
		PaymentMode: mode,
		Reference:   ref,
		Status:      model.DonationStatusCompleted,
	}
}

func TestSummarizeBudgetScenario(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 80000)

	require.NoError(t, db.Create(completedDonation(event.Id, 25000, "upi", "d1")).Error)
	require.NoError(t, db.Create(completedDonation(event.Id, 35000, "card", "d2")).Error)
	// 未到账的捐赠不参与统计
	pending := &model.DonationModel{EventId: event.Id, Amount: 99999, Reference: "d3", Status: model.DonationStatusPending}
	require.NoError(t, db.Create(pending).Error)

	require.NoError(t, db.Create(&model.ExpenseModel{
		EventId: event.Id, Amount: 90000, ApprovalStatus: model.ApprovalStatusApproved,
	}).Error)
	// 未批准的支出不参与统计
	require.NoError(t, db.Create(&model.ExpenseModel{
		EventId: event.Id, Amount: 12345, ApprovalStatus: model.ApprovalStatusPending,
	}).Error)

	financeLogic := NewFinanceLogic(db)

	summary, err := financeLogic.Summarize(event.Id)
	require.NoError(t, err)

	assert.EqualValues(t, 60000, summary.TotalDonations)
	assert.InDelta(t, 60, summary.TargetAchievement, 0.001)
	assert.EqualValues(t, 40000, summary.RemainingAmount)
	assert.EqualValues(t, 90000, summary.TotalExpenses)
	assert.EqualValues(t, -10000, summary.BudgetVariance)
	// 余额允许为负，不截断
	assert.EqualValues(t, -30000, summary.AvailableBalance)
}

func TestSummarizeVacuousEvent(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 0, 0)

	financeLogic := NewFinanceLogic(db)

	// 没有任何捐赠和支出是正常状态，不是错误
	summary, err := financeLogic.Summarize(event.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.TotalDonations)
	// 目标为0时达成率记为0，不是 NaN/Inf
	assert.EqualValues(t, 0, summary.TargetAchievement)
	assert.EqualValues(t, 0, summary.RemainingAmount)
	assert.EqualValues(t, 0, summary.BudgetVariance)
	assert.EqualValues(t, 0, summary.AvailableBalance)
}

func TestSummarizeMissingEvent(t *testing.T) {
	db := newTestDB(t)

	financeLogic := NewFinanceLogic(db)
	_, err := financeLogic.Summarize(31337)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAnalyzeItemCompletionAggregate(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)

	// (total=1000, donated=400) + (total=500, donated=500) → 60%
	itemA := createTestItem(t, db, event.Id, 1000, 1)
	itemB := createTestItem(t, db, event.Id, 500, 1)
	require.NoError(t, db.Model(itemA).Updates(map[string]interface{}{
		"donated_amount": 400, "status": model.ItemStatusPartial,
	}).Error)
	require.NoError(t, db.Model(itemB).Updates(map[string]interface{}{
		"donated_amount": 500, "status": model.ItemStatusCompleted,
	}).Error)

	financeLogic := NewFinanceLogic(db)

	analytics, err := financeLogic.Analyze(event.Id)
	require.NoError(t, err)

	assert.InDelta(t, 60, analytics.Items.ItemCompletionPercentage, 0.001)
	assert.Len(t, analytics.Items.Items, 2)
	assert.InDelta(t, 40, analytics.Items.Items[0].CompletionPercentage, 0.001)
	assert.InDelta(t, 100, analytics.Items.Items[1].CompletionPercentage, 0.001)
	assert.Equal(t, 0, analytics.Items.PendingCount)
	assert.Equal(t, 1, analytics.Items.PartialCount)
	assert.Equal(t, 1, analytics.Items.CompletedCount)
}

func TestAnalyzeExcludesTombstonedItems(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)

	keep := createTestItem(t, db, event.Id, 1000, 1)
	gone := createTestItem(t, db, event.Id, 2000, 1)
	require.NoError(t, db.Delete(&model.EventItemModel{}, gone.Id).Error)

	financeLogic := NewFinanceLogic(db)

	analytics, err := financeLogic.Analyze(event.Id)
	require.NoError(t, err)
	require.Len(t, analytics.Items.Items, 1)
	assert.Equal(t, keep.Id, analytics.Items.Items[0].ItemId)
}

func TestAnalyzeDonationSplit(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 0)
	item := createTestItem(t, db, event.Id, 10000, 1)

	general := completedDonation(event.Id, 6000, "upi", "g1")
	require.NoError(t, db.Create(general).Error)
	targeted := completedDonation(event.Id, 4000, "card", "t1")
	targeted.EventItemId = &item.Id
	require.NoError(t, db.Create(targeted).Error)

	financeLogic := NewFinanceLogic(db)

	analytics, err := financeLogic.Analyze(event.Id)
	require.NoError(t, err)

	donations := analytics.Donations
	assert.EqualValues(t, 10000, donations.TotalAmount)
	assert.EqualValues(t, 6000, donations.GeneralAmount)
	assert.EqualValues(t, 4000, donations.ItemAmount)
	assert.InDelta(t, 60, donations.GeneralPercentage, 0.001)
	assert.InDelta(t, 40, donations.ItemPercentage, 0.001)
	assert.EqualValues(t, 2, donations.DonationCount)
	assert.InDelta(t, 5000, donations.AverageDonation, 0.001)

	require.Len(t, donations.ByPaymentMode, 2)
	assert.Equal(t, "upi", donations.ByPaymentMode[0].Mode)
	assert.EqualValues(t, 6000, donations.ByPaymentMode[0].Amount)
}

func TestAnalyzeExpensePlans(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 50000)

	planA := createTestPlan(t, db, event.Id, 20000)
	createTestPlan(t, db, event.Id, 10000)
	require.NoError(t, db.Model(planA).Updates(map[string]interface{}{
		"actual_amount": 25000, "status": model.PlanStatusCompleted,
	}).Error)

	financeLogic := NewFinanceLogic(db)

	analytics, err := financeLogic.Analyze(event.Id)
	require.NoError(t, err)

	expenses := analytics.Expenses
	assert.EqualValues(t, 30000, expenses.TotalEstimated)
	assert.EqualValues(t, 25000, expenses.TotalActual)
	assert.EqualValues(t, -5000, expenses.Variance)
	assert.InDelta(t, -16.666, expenses.VariancePercentage, 0.01)
	assert.Equal(t, 2, expenses.PlanCount)
	assert.Equal(t, 1, expenses.CompletedPlanCount)
}

func TestAnalyzeBudgetScenarioProducesOverspend(t *testing.T) {
	db := newTestDB(t)
	event := createTestEvent(t, db, 100000, 80000)

	require.NoError(t, db.Create(completedDonation(event.Id, 60000, "upi", "d1")).Error)
	require.NoError(t, db.Create(&model.ExpenseModel{
		EventId: event.Id, Amount: 90000, ApprovalStatus: model.ApprovalStatusApproved,
	}).Error)

	financeLogic := NewFinanceLogic(db)

	analytics, err := financeLogic.Analyze(event.Id)
	require.NoError(t, err)

	types := make([]string, 0, len(analytics.Recommendations))
	for _, rec := range analytics.Recommendations {
		types = append(types, rec.Type)
	}
	assert.Contains(t, types, "overspend")
	assert.Contains(t, types, "negative_balance")
}
