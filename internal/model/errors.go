package model

import (
	"errors"
)

// 业务错误哨兵，logic 层返回（可被包装），handler 层用 errors.Is 映射状态码
var (
	// ErrNotFound 记录不存在或已删除
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidAmount 金额不合法（负数）
	ErrInvalidAmount = errors.New("金额不合法")
	// ErrInvalidTransition 非法的状态流转
	ErrInvalidTransition = errors.New("非法的状态流转")
	// ErrConcurrencyConflict 乐观锁冲突重试耗尽，调用方可重试
	ErrConcurrencyConflict = errors.New("并发冲突，请重试")
)
