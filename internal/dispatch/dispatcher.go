package dispatch

import (
	"context"

	"github.com/blues/efs/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// Dispatcher 异步回调派发器
// 活动完成等副作用通过协程池执行，不占用请求路径
type Dispatcher struct {
	pool   *ants.Pool
	ctx    context.Context
	cancel context.CancelFunc
}

// New 创建派发器
func New(poolSize int) (*Dispatcher, error) {
	if poolSize <= 0 {
		poolSize = 4
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		pool:   pool,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Submit 提交一个任务
func (d *Dispatcher) Submit(task func()) error {
	return d.pool.Submit(func() {
		select {
		case <-d.ctx.Done():
			return
		default:
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("dispatch task panic: %v", r)
			}
		}()
		task()
	})
}

// Stop 停止派发器并释放协程池
func (d *Dispatcher) Stop() {
	d.cancel()
	d.pool.Release()
}
