package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/efs/internal/logger"
	"github.com/blues/efs/internal/model"
	"gorm.io/gorm"
)

// PointsHook 活动完成时触发的志愿者积分发放回调（外部协作方）
type PointsHook func(event model.EventModel)

// HookRunner 把完成回调从请求路径上移走的执行器
type HookRunner interface {
	Submit(task func()) error
}

// EventLogic 活动生命周期业务逻辑
// planned → ongoing → {completed, cancelled}，终态之后不再流转
type EventLogic struct {
	db         *gorm.DB
	pointsHook PointsHook
	runner     HookRunner
}

// NewEventLogic 创建活动业务逻辑
func NewEventLogic(db *gorm.DB) *EventLogic {
	return &EventLogic{db: db}
}

// SetPointsHook 设置完成回调，runner 为空时同步执行
func (e *EventLogic) SetPointsHook(hook PointsHook, runner HookRunner) {
	e.pointsHook = hook
	e.runner = runner
}

// CreateEvent 创建筹款活动
func (e *EventLogic) CreateEvent(event *model.EventModel) error {
	if err := e.validateEvent(event); err != nil {
		return err
	}

	event.Status = model.EventStatusPlanned
	event.PointsDistributedAt = nil
	return e.db.Create(event).Error
}

// GetEvent 获取活动详情
func (e *EventLogic) GetEvent(id int64) (*model.EventModel, error) {
	var event model.EventModel
	if err := e.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 活动 %d", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &event, nil
}

// GetEvents 获取活动列表
func (e *EventLogic) GetEvents() ([]model.EventModel, error) {
	var events []model.EventModel
	if err := e.db.Order("start_time DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("获取活动列表失败: %w", err)
	}
	return events, nil
}

// StartEvent 启动活动：planned → ongoing
func (e *EventLogic) StartEvent(id int64) (*model.EventModel, error) {
	res := e.db.Model(&model.EventModel{}).
		Where("id = ? AND status = ?", id, model.EventStatusPlanned).
		Update("status", model.EventStatusOngoing)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		event, err := e.GetEvent(id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: 活动处于 %s 状态，无法启动", model.ErrInvalidTransition, event.Status)
	}
	return e.GetEvent(id)
}

// CompleteEvent 完成活动：ongoing → completed
// 条件更新保证积分发放只触发一次；重复调用返回 alreadyCompleted=true
func (e *EventLogic) CompleteEvent(id int64) (event *model.EventModel, alreadyCompleted bool, err error) {
	now := time.Now()
	res := e.db.Model(&model.EventModel{}).
		Where("id = ? AND status = ?", id, model.EventStatusOngoing).
		Updates(map[string]interface{}{
			"status":                model.EventStatusCompleted,
			"points_distributed_at": now,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected == 0 {
		event, err := e.GetEvent(id)
		if err != nil {
			return nil, false, err
		}
		if event.Status == model.EventStatusCompleted {
			// 幂等信号：已经完成过，不再触发积分发放
			return event, true, nil
		}
		return nil, false, fmt.Errorf("%w: 活动处于 %s 状态，无法完成", model.ErrInvalidTransition, event.Status)
	}

	event, err = e.GetEvent(id)
	if err != nil {
		return nil, false, err
	}

	e.firePointsHook(*event)
	return event, false, nil
}

// CancelEvent 取消活动：planned/ongoing → cancelled
func (e *EventLogic) CancelEvent(id int64) (*model.EventModel, error) {
	res := e.db.Model(&model.EventModel{}).
		Where("id = ? AND status IN ?", id, []model.EventStatus{
			model.EventStatusPlanned,
			model.EventStatusOngoing,
		}).
		Update("status", model.EventStatusCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		event, err := e.GetEvent(id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: 活动处于 %s 状态，无法取消", model.ErrInvalidTransition, event.Status)
	}
	return e.GetEvent(id)
}

// firePointsHook 触发积分发放回调
func (e *EventLogic) firePointsHook(event model.EventModel) {
	if e.pointsHook == nil {
		return
	}
	hook := e.pointsHook
	if e.runner == nil {
		hook(event)
		return
	}
	if err := e.runner.Submit(func() { hook(event) }); err != nil {
		logger.Error("活动 %d 积分发放回调提交失败: %v", event.Id, err)
	}
}

// validateEvent 验证活动数据
func (e *EventLogic) validateEvent(event *model.EventModel) error {
	if event.Title == "" {
		return errors.New("活动标题不能为空")
	}
	if event.TargetAmount < 0 {
		return fmt.Errorf("%w: 筹款目标不能为负数", model.ErrInvalidAmount)
	}
	if event.Budget < 0 {
		return fmt.Errorf("%w: 预算不能为负数", model.ErrInvalidAmount)
	}
	if event.StartTime.After(event.EndTime) {
		return errors.New("开始时间不能晚于结束时间")
	}
	if event.OrganizerId == 0 {
		return errors.New("组织者ID不能为空")
	}
	return nil
}
