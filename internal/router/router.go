package router

import (
	"github.com/blues/efs/internal/config"
	"github.com/blues/efs/internal/dispatch"
	"github.com/blues/efs/internal/handler"
	"github.com/blues/efs/internal/logger"
	"github.com/blues/efs/internal/logic"
	"github.com/blues/efs/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, dispatcher *dispatch.Dispatcher, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "event-finance-service",
		})
	})

	// 业务逻辑
	itemLedger := logic.NewItemLedgerLogic(db)
	itemLedger.MaxRetries = cfg.Ledger.MaxRetries
	donationLogic := logic.NewDonationLogic(db, itemLedger)
	expenseLogic := logic.NewExpenseLogic(db)
	expenseLogic.MaxRetries = cfg.Ledger.MaxRetries
	financeLogic := logic.NewFinanceLogic(db)
	eventLogic := logic.NewEventLogic(db)

	// 活动完成时通知外部积分发放协作方，这里只记录事实
	var runner logic.HookRunner
	if dispatcher != nil {
		runner = dispatcher
	}
	eventLogic.SetPointsHook(func(event model.EventModel) {
		logger.Info("活动 %d (%s) 已完成，触发志愿者积分发放", event.Id, event.Title)
	}, runner)

	// 处理器
	eventHandler := handler.NewEventHandler(eventLogic)
	itemHandler := handler.NewItemHandler(itemLedger)
	donationHandler := handler.NewDonationHandler(donationLogic)
	expenseHandler := handler.NewExpenseHandler(expenseLogic)
	financeHandler := handler.NewFinanceHandler(financeLogic)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.GetEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.POST("/:id/start", eventHandler.StartEvent)
			events.POST("/:id/complete", eventHandler.CompleteEvent)
			events.POST("/:id/cancel", eventHandler.CancelEvent)

			events.GET("/:id/summary", financeHandler.GetSummary)
			events.GET("/:id/analytics", financeHandler.GetAnalytics)

			events.POST("/:id/items", itemHandler.CreateItem)
			events.GET("/:id/items", itemHandler.GetEventItems)

			events.GET("/:id/donations", donationHandler.GetEventDonations)

			events.POST("/:id/plans", expenseHandler.CreatePlan)
			events.GET("/:id/plans", expenseHandler.GetEventPlans)
		}

		items := v1.Group("/items")
		{
			items.GET("/:id/fulfillment", itemHandler.GetFulfillment)
			items.DELETE("/:id", itemHandler.DeleteItem)
		}

		plans := v1.Group("/plans")
		{
			plans.POST("/:id/approve", expenseHandler.ApprovePlan)
			plans.POST("/:id/cancel", expenseHandler.CancelPlan)
		}

		// 外部协作方入口：捐赠服务与支出审批流程
		v1.POST("/donations/confirmed", donationHandler.RecordConfirmedDonation)
		v1.POST("/expenses/approved", expenseHandler.ApplyApprovedExpense)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
