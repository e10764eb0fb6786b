package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/efs/internal/logic"
	"github.com/blues/efs/internal/model"
	"github.com/gin-gonic/gin"
)

// DonationHandler 捐赠处理器
// 入账接口由外部捐赠服务在支付确认后调用
type DonationHandler struct {
	donationLogic *logic.DonationLogic
}

// NewDonationHandler 创建捐赠处理器
func NewDonationHandler(donationLogic *logic.DonationLogic) *DonationHandler {
	return &DonationHandler{donationLogic: donationLogic}
}

// RecordConfirmedDonation 记录一笔已确认捐赠
func (h *DonationHandler) RecordConfirmedDonation(c *gin.Context) {
	var req ConfirmedDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	status := model.DonationStatus(req.Status)
	if status == "" {
		status = model.DonationStatusCompleted
	}

	donation := &model.DonationModel{
		EventId:      req.EventId,
		EventItemId:  req.EventItemId,
		ItemQuantity: req.ItemQuantity,
		Amount:       req.Amount,
		DonorName:    req.DonorName,
		PaymentMode:  req.PaymentMode,
		Reference:    req.Reference,
		Status:       status,
	}

	overflow, err := h.donationLogic.RecordDonation(donation)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐赠入账成功", RecordDonationResponse{
		Donation:       ToDonationResponse(donation),
		OverflowAmount: overflow,
	})
}

// GetEventDonations 获取活动捐赠记录
func (h *DonationHandler) GetEventDonations(c *gin.Context) {
	eventId, ok := parseIdParam(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	donations, total, err := h.donationLogic.GetEventDonations(eventId, page, pageSize)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	pagination := Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠记录成功", GetEventDonationsResponse{
		Donations:  ToDonationResponseList(donations),
		Pagination: pagination,
	})
}
