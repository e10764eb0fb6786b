package handler

import (
	"time"

	"github.com/blues/efs/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// 活动相关请求/响应模型

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	TargetAmount  int64     `json:"targetAmount" binding:"min=0"`
	Budget        int64     `json:"budget" binding:"min=0"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required"`
	OrganizerId   int64     `json:"organizerId" binding:"required"`
	OrganizerName string    `json:"organizerName"`
}

// EventResponse 活动响应模型
type EventResponse struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	TargetAmount        int64      `json:"targetAmount"`
	Budget              int64      `json:"budget"`
	Status              string     `json:"status"`
	StartTime           time.Time  `json:"startTime"`
	EndTime             time.Time  `json:"endTime"`
	OrganizerId         int64      `json:"organizerId"`
	OrganizerName       string     `json:"organizerName"`
	PointsDistributedAt *time.Time `json:"pointsDistributedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// CompleteEventResponse 完成活动响应
type CompleteEventResponse struct {
	Event            EventResponse `json:"event"`
	AlreadyCompleted bool          `json:"alreadyCompleted"`
}

// 物品相关请求/响应模型

// CreateItemRequest 创建筹款物品请求
type CreateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	UnitPrice     int64  `json:"unitPrice" binding:"required,min=1"`
	TotalQuantity int    `json:"totalQuantity" binding:"required,min=1"`
	TotalAmount   int64  `json:"totalAmount"`
}

// ItemResponse 物品响应模型
type ItemResponse struct {
	ID              int64     `json:"id"`
	EventID         int64     `json:"eventId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	UnitPrice       int64     `json:"unitPrice"`
	TotalQuantity   int       `json:"totalQuantity"`
	TotalAmount     int64     `json:"totalAmount"`
	DonatedAmount   int64     `json:"donatedAmount"`
	DonatedQuantity int       `json:"donatedQuantity"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FulfillmentResponse 物品对账响应
type FulfillmentResponse struct {
	Item                 ItemResponse `json:"item"`
	TotalDonations       int64        `json:"totalDonations"`
	TotalQuantityDonated int          `json:"totalQuantityDonated"`
}

// 捐赠相关请求/响应模型

// ConfirmedDonationRequest 捐赠服务确认后的入账请求
type ConfirmedDonationRequest struct {
	EventId      int64  `json:"eventId" binding:"required"`
	EventItemId  *int64 `json:"eventItemId"`
	ItemQuantity int    `json:"itemQuantity"`
	Amount       int64  `json:"amount" binding:"min=0"`
	DonorName    string `json:"donorName"`
	PaymentMode  string `json:"paymentMode"`
	Reference    string `json:"reference" binding:"required"`
	Status       string `json:"status"`
}

// DonationResponse 捐赠记录响应模型
type DonationResponse struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"eventId"`
	EventItemID  *int64    `json:"eventItemId,omitempty"`
	ItemQuantity int       `json:"itemQuantity"`
	Amount       int64     `json:"amount"`
	DonorName    string    `json:"donorName"`
	PaymentMode  string    `json:"paymentMode"`
	Reference    string    `json:"reference"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecordDonationResponse 捐赠入账响应
type RecordDonationResponse struct {
	Donation DonationResponse `json:"donation"`
	// 物品已筹满时被截断的金额，仍计入活动捐赠总额
	OverflowAmount int64 `json:"overflowAmount"`
}

// GetEventDonationsResponse 获取活动捐赠记录响应
type GetEventDonationsResponse struct {
	Donations  []DonationResponse `json:"donations"`
	Pagination Pagination         `json:"pagination"`
}

// 支出相关请求/响应模型

// CreatePlanRequest 创建支出计划请求
type CreatePlanRequest struct {
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category"`
	EstimatedAmount int64  `json:"estimatedAmount" binding:"required,min=1"`
}

// ApprovePlanRequest 审批支出计划请求
type ApprovePlanRequest struct {
	ApproverId int64 `json:"approverId" binding:"required"`
}

// ApprovedExpenseRequest 审批流程批准后的支出入账请求
type ApprovedExpenseRequest struct {
	EventId     int64  `json:"eventId" binding:"required"`
	PlanId      *int64 `json:"planId"`
	Amount      int64  `json:"amount" binding:"min=0"`
	Description string `json:"description"`
	ApproverId  int64  `json:"approverId"`
}

// PlanResponse 支出计划响应模型
type PlanResponse struct {
	ID                 int64     `json:"id"`
	EventID            int64     `json:"eventId"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	EstimatedAmount    int64     `json:"estimatedAmount"`
	ActualAmount       int64     `json:"actualAmount"`
	Variance           int64     `json:"variance"`
	VariancePercentage float64   `json:"variancePercentage"`
	Status             string    `json:"status"`
	IsApproved         bool      `json:"isApproved"`
	ApprovedBy         int64     `json:"approvedBy"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ApplyExpenseResponse 支出入账响应
type ApplyExpenseResponse struct {
	ExpenseId          int64         `json:"expenseId"`
	Plan               *PlanResponse `json:"plan,omitempty"`
	Variance           int64         `json:"variance"`
	VariancePercentage float64       `json:"variancePercentage"`
}

// 转换函数

// ToEventResponse 将活动数据库模型转换为响应模型
func ToEventResponse(event *model.EventModel) EventResponse {
	return EventResponse{
		ID:                  event.Id,
		Title:               event.Title,
		Description:         event.Description,
		Location:            event.Location,
		TargetAmount:        event.TargetAmount,
		Budget:              event.Budget,
		Status:              string(event.Status),
		StartTime:           event.StartTime,
		EndTime:             event.EndTime,
		OrganizerId:         event.OrganizerId,
		OrganizerName:       event.OrganizerName,
		PointsDistributedAt: event.PointsDistributedAt,
		CreatedAt:           event.CreatedAt,
		UpdatedAt:           event.UpdatedAt,
	}
}

// ToEventResponseList 将活动数据库模型列表转换为响应模型列表
func ToEventResponseList(events []model.EventModel) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, event := range events {
		result[i] = ToEventResponse(&event)
	}
	return result
}

// ToItemResponse 将物品数据库模型转换为响应模型
func ToItemResponse(item *model.EventItemModel) ItemResponse {
	return ItemResponse{
		ID:              item.Id,
		EventID:         item.EventId,
		Name:            item.Name,
		Description:     item.Description,
		UnitPrice:       item.UnitPrice,
		TotalQuantity:   item.TotalQuantity,
		TotalAmount:     item.TotalAmount,
		DonatedAmount:   item.DonatedAmount,
		DonatedQuantity: item.DonatedQuantity,
		Status:          string(item.Status),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// ToItemResponseList 将物品数据库模型列表转换为响应模型列表
func ToItemResponseList(items []model.EventItemModel) []ItemResponse {
	result := make([]ItemResponse, len(items))
	for i, item := range items {
		result[i] = ToItemResponse(&item)
	}
	return result
}

// ToDonationResponse 将捐赠记录数据库模型转换为响应模型
func ToDonationResponse(donation *model.DonationModel) DonationResponse {
	return DonationResponse{
		ID:           donation.Id,
		EventID:      donation.EventId,
		EventItemID:  donation.EventItemId,
		ItemQuantity: donation.ItemQuantity,
		Amount:       donation.Amount,
		DonorName:    donation.DonorName,
		PaymentMode:  donation.PaymentMode,
		Reference:    donation.Reference,
		Status:       string(donation.Status),
		CreatedAt:    donation.CreatedAt,
	}
}

// ToDonationResponseList 将捐赠记录数据库模型列表转换为响应模型列表
func ToDonationResponseList(donations []model.DonationModel) []DonationResponse {
	result := make([]DonationResponse, len(donations))
	for i, donation := range donations {
		result[i] = ToDonationResponse(&donation)
	}
	return result
}

// ToPlanResponse 将支出计划数据库模型转换为响应模型
func ToPlanResponse(plan *model.ExpensePlanModel) PlanResponse {
	return PlanResponse{
		ID:                 plan.Id,
		EventID:            plan.EventId,
		Name:               plan.Name,
		Category:           plan.Category,
		EstimatedAmount:    plan.EstimatedAmount,
		ActualAmount:       plan.ActualAmount,
		Variance:           plan.Variance(),
		VariancePercentage: plan.VariancePercentage(),
		Status:             string(plan.Status),
		IsApproved:         plan.IsApproved,
		ApprovedBy:         plan.ApprovedBy,
		CreatedAt:          plan.CreatedAt,
		UpdatedAt:          plan.UpdatedAt,
	}
}

// ToPlanResponseList 将支出计划数据库模型列表转换为响应模型列表
func ToPlanResponseList(plans []model.ExpensePlanModel) []PlanResponse {
	result := make([]PlanResponse, len(plans))
	for i, plan := range plans {
		result[i] = ToPlanResponse(&plan)
	}
	return result
}
