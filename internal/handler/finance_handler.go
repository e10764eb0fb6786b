package handler

import (
	"net/http"

	"github.com/blues/efs/internal/logic"
	"github.com/gin-gonic/gin"
)

// FinanceHandler 财务看板处理器，只读
type FinanceHandler struct {
	financeLogic *logic.FinanceLogic
}

// NewFinanceHandler 创建财务看板处理器
func NewFinanceHandler(financeLogic *logic.FinanceLogic) *FinanceHandler {
	return &FinanceHandler{financeLogic: financeLogic}
}

// GetSummary 获取活动财务摘要
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	summary, err := h.financeLogic.Summarize(eventId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取财务摘要成功", summary)
}

// GetAnalytics 获取活动财务分析
func (h *FinanceHandler) GetAnalytics(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	analytics, err := h.financeLogic.Analyze(eventId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取财务分析成功", analytics)
}
