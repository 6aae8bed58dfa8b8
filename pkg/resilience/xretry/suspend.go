package xretry

import (
	"context"
	"time"
)

// TimerSuspender 默认挂起实现
// 基于 time.Timer 阻塞当前 goroutine，挂起期间响应上下文取消。
// 其他 goroutine 不受影响。
type TimerSuspender struct{}

// NewTimerSuspender 创建默认挂起实现
func NewTimerSuspender() *TimerSuspender {
	return &TimerSuspender{}
}

// Suspend 阻塞当前 goroutine d 时长。
// d <= 0 时立即返回（仍然上报已取消的上下文）。
func (TimerSuspender) Suspend(ctx context.Context, d time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// 确保实现了 Suspender 接口
var (
	_ Suspender = TimerSuspender{}
	_ Suspender = SuspendFunc(nil)
)
