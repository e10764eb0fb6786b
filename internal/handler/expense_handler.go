package handler

import (
	"net/http"

	"github.com/blues/efs/internal/logic"
	"github.com/blues/efs/internal/model"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler 支出处理器
// 入账接口由外部审批流程在批准后调用
type ExpenseHandler struct {
	expenseLogic *logic.ExpenseLogic
}

// NewExpenseHandler 创建支出处理器
func NewExpenseHandler(expenseLogic *logic.ExpenseLogic) *ExpenseHandler {
	return &ExpenseHandler{expenseLogic: expenseLogic}
}

// CreatePlan 创建支出计划
func (h *ExpenseHandler) CreatePlan(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	plan := &model.ExpensePlanModel{
		EventId:         eventId,
		Name:            req.Name,
		Category:        req.Category,
		EstimatedAmount: req.EstimatedAmount,
	}

	if err := h.expenseLogic.CreatePlan(plan); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "创建支出计划成功", ToPlanResponse(plan))
}

// GetEventPlans 获取活动支出计划列表
func (h *ExpenseHandler) GetEventPlans(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	plans, err := h.expenseLogic.GetEventPlans(eventId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取支出计划列表成功", ToPlanResponseList(plans))
}

// ApprovePlan 审批支出计划
func (h *ExpenseHandler) ApprovePlan(c *gin.Context) {
	planId, ok := parseIdParam(c)
	if !ok {
		return
	}

	var req ApprovePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.expenseLogic.ApprovePlan(planId, req.ApproverId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "审批成功", ToPlanResponse(plan))
}

// CancelPlan 取消支出计划
func (h *ExpenseHandler) CancelPlan(c *gin.Context) {
	planId, ok := parseIdParam(c)
	if !ok {
		return
	}

	plan, err := h.expenseLogic.CancelPlan(planId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "支出计划已取消", ToPlanResponse(plan))
}

// ApplyApprovedExpense 将已批准支出入账
func (h *ExpenseHandler) ApplyApprovedExpense(c *gin.Context) {
	var req ApprovedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.expenseLogic.ApplyExpense(req.EventId, req.PlanId, req.Amount, req.Description, req.ApproverId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	resp := ApplyExpenseResponse{
		ExpenseId:          application.Expense.Id,
		Variance:           application.Variance,
		VariancePercentage: application.VariancePercentage,
	}
	if application.Plan != nil {
		plan := ToPlanResponse(application.Plan)
		resp.Plan = &plan
	}

	SuccessResponse(c, http.StatusCreated, "支出入账成功", resp)
}
