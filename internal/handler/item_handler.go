package handler

import (
	"net/http"

	"github.com/blues/efs/internal/logic"
	"github.com/blues/efs/internal/model"
	"github.com/gin-gonic/gin"
)

// ItemHandler 筹款物品处理器
type ItemHandler struct {
	itemLedger *logic.ItemLedgerLogic
}

// NewItemHandler 创建筹款物品处理器
func NewItemHandler(itemLedger *logic.ItemLedgerLogic) *ItemHandler {
	return &ItemHandler{itemLedger: itemLedger}
}

// CreateItem 创建筹款物品
func (h *ItemHandler) CreateItem(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	item := &model.EventItemModel{
		EventId:       eventId,
		Name:          req.Name,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		TotalQuantity: req.TotalQuantity,
		TotalAmount:   req.TotalAmount,
	}

	if err := h.itemLedger.CreateItem(item); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "创建物品成功", ToItemResponse(item))
}

// GetEventItems 获取活动物品列表
func (h *ItemHandler) GetEventItems(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	items, err := h.itemLedger.GetEventItems(eventId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取物品列表成功", ToItemResponseList(items))
}

// DeleteItem 删除筹款物品
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	itemId, ok := parseIdParam(c)
	if !ok {
		return
	}

	if err := h.itemLedger.DeleteItem(itemId); err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "删除物品成功", nil)
}

// GetFulfillment 获取物品对账视图
func (h *ItemHandler) GetFulfillment(c *gin.Context) {
	itemId, ok := parseIdParam(c)
	if !ok {
		return
	}

	fulfillment, err := h.itemLedger.GetFulfillment(itemId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取物品对账成功", FulfillmentResponse{
		Item:                 ToItemResponse(fulfillment.Item),
		TotalDonations:       fulfillment.TotalDonations,
		TotalQuantityDonated: fulfillment.TotalQuantityDonated,
	})
}
