package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/efs/internal/logic"
	"github.com/blues/efs/internal/model"
	"github.com/gin-gonic/gin"
)

// EventHandler 活动处理器
type EventHandler struct {
	eventLogic *logic.EventLogic
}

// NewEventHandler 创建活动处理器
func NewEventHandler(eventLogic *logic.EventLogic) *EventHandler {
	return &EventHandler{eventLogic: eventLogic}
}

// CreateEvent 创建活动
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	event := &model.EventModel{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		TargetAmount:  req.TargetAmount,
		Budget:        req.Budget,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OrganizerId:   req.OrganizerId,
		OrganizerName: req.OrganizerName,
	}

	if err := h.eventLogic.CreateEvent(event); err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "创建活动成功", ToEventResponse(event))
}

// GetEvents 获取活动列表
func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.eventLogic.GetEvents()
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取活动列表成功", ToEventResponseList(events))
}

// GetEvent 获取活动详情
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}

	event, err := h.eventLogic.GetEvent(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "获取活动详情成功", ToEventResponse(event))
}

// StartEvent 启动活动
func (h *EventHandler) StartEvent(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}

	event, err := h.eventLogic.StartEvent(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "活动已启动", ToEventResponse(event))
}

// CompleteEvent 完成活动（幂等）
func (h *EventHandler) CompleteEvent(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}

	event, alreadyCompleted, err := h.eventLogic.CompleteEvent(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	message := "活动已完成"
	if alreadyCompleted {
		message = "活动此前已完成"
	}
	SuccessResponse(c, http.StatusOK, message, CompleteEventResponse{
		Event:            ToEventResponse(event),
		AlreadyCompleted: alreadyCompleted,
	})
}

// CancelEvent 取消活动
func (h *EventHandler) CancelEvent(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}

	event, err := h.eventLogic.CancelEvent(id)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "活动已取消", ToEventResponse(event))
}

// parseIdParam 解析路径中的ID参数
func parseIdParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的ID")
		return 0, false
	}
	return id, true
}
