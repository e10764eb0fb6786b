package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeItemStatus(t *testing.T) {
	assert.Equal(t, ItemStatusPending, ComputeItemStatus(0, 100))
	assert.Equal(t, ItemStatusPartial, ComputeItemStatus(50, 100))
	assert.Equal(t, ItemStatusCompleted, ComputeItemStatus(100, 100))
	assert.Equal(t, ItemStatusCompleted, ComputeItemStatus(150, 100))

	// 目标为0的物品一旦有捐赠即视为筹满
	assert.Equal(t, ItemStatusPending, ComputeItemStatus(0, 0))
	assert.Equal(t, ItemStatusCompleted, ComputeItemStatus(1, 0))
}

func TestCompletionPercentageGuard(t *testing.T) {
	item := &EventItemModel{TotalAmount: 0, DonatedAmount: 100}
	assert.EqualValues(t, 0, item.CompletionPercentage())

	item = &EventItemModel{TotalAmount: 1000, DonatedAmount: 400}
	assert.InDelta(t, 40, item.CompletionPercentage(), 0.001)
}

func TestEventStatusIsTerminal(t *testing.T) {
	assert.False(t, EventStatusPlanned.IsTerminal())
	assert.False(t, EventStatusOngoing.IsTerminal())
	assert.True(t, EventStatusCompleted.IsTerminal())
	assert.True(t, EventStatusCancelled.IsTerminal())
}

func TestPlanVariance(t *testing.T) {
	plan := &ExpensePlanModel{EstimatedAmount: 1000, ActualAmount: 1200}
	assert.EqualValues(t, 200, plan.Variance())
	assert.InDelta(t, 20, plan.VariancePercentage(), 0.001)

	plan = &ExpensePlanModel{EstimatedAmount: 0, ActualAmount: 500}
	assert.EqualValues(t, 500, plan.Variance())
	assert.EqualValues(t, 0, plan.VariancePercentage())
}
