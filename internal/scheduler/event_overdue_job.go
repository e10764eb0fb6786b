package scheduler

import (
	"time"

	"github.com/blues/efs/internal/config"
	"github.com/blues/efs/internal/logger"
	"github.com/blues/efs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// EventOverdueJob 超期活动巡检任务
// 状态流转是管理员显式操作，这里只提醒，不自动改状态
type EventOverdueJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewEventOverdueJob 创建超期活动巡检任务
func NewEventOverdueJob(db *gorm.DB, cfg *config.Config) *EventOverdueJob {
	return &EventOverdueJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *EventOverdueJob) GetName() string {
	return "event_overdue"
}

// GetSchedule 获取调度配置
func (j *EventOverdueJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.OverdueInterval) * time.Second)
}

// Execute 执行巡检
func (j *EventOverdueJob) Execute() {
	var events []model.EventModel
	err := j.db.Where("status = ? AND end_time < ?", model.EventStatusOngoing, time.Now()).
		Find(&events).Error
	if err != nil {
		logger.Error("Overdue check: failed to fetch events: %v", err)
		return
	}

	for _, event := range events {
		logger.Warn("活动 %d (%s) 已超过结束时间仍处于进行中，请管理员完成或取消", event.Id, event.Title)
	}
}
