package logic

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blues/efs/internal/database"
	"github.com/blues/efs/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB 每个测试一个独立的内存数据库
// 单连接串行化语句执行，版本冲突仍然会发生但不会出现 sqlite 锁错误
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:efs_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// createTestEvent 创建一个进行中的活动
func createTestEvent(t *testing.T, db *gorm.DB, targetAmount, budget int64) *model.EventModel {
	t.Helper()

	now := time.Now()
	event := &model.EventModel{
		Title:        "测试筹款活动",
		TargetAmount: targetAmount,
		Budget:       budget,
		StartTime:    now.Add(-24 * time.Hour),
		EndTime:      now.Add(24 * time.Hour),
		Status:       model.EventStatusOngoing,
		OrganizerId:  1,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// createTestItem 创建一个筹款物品
func createTestItem(t *testing.T, db *gorm.DB, eventId int64, unitPrice int64, quantity int) *model.EventItemModel {
	t.Helper()

	item := &model.EventItemModel{
		EventId:       eventId,
		Name:          "测试物品",
		UnitPrice:     unitPrice,
		TotalQuantity: quantity,
		TotalAmount:   unitPrice * int64(quantity),
		Status:        model.ItemStatusPending,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// createTestPlan 创建一个支出计划
func createTestPlan(t *testing.T, db *gorm.DB, eventId int64, estimated int64) *model.ExpensePlanModel {
	t.Helper()

	plan := &model.ExpensePlanModel{
		EventId:         eventId,
		Name:            "测试支出计划",
		EstimatedAmount: estimated,
		Status:          model.PlanStatusPlanned,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}
