package xretry

import (
	"context"
	"time"
)

// RetryPolicy 定义重试策略接口
// 判断是否应该继续重试
//
// 通过 Retryer 使用时：
//   - MaxAttempts() 描述总尝试次数上限（包含首次尝试）
//   - ShouldRetry() 在每次失败后被调用，可实现自定义的重试判断逻辑
//   - Unrecoverable 错误会在 ShouldRetry 之前被短路拦截
type RetryPolicy interface {
	// MaxAttempts 返回最大尝试次数（包含首次尝试）
	// 返回 0 表示无限重试
	MaxAttempts() int

	// ShouldRetry 判断是否应该重试
	//
	// ctx: 上下文，可用于取消
	// attempt: 当前尝试次数（从 1 开始）
	// err: 上次执行的错误
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// BackoffPolicy 定义退避策略接口
// 计算重试间隔时间
//
// NextDelay 必须是纯函数：无副作用，给定相同的随机源输出确定。
type BackoffPolicy interface {
	// NextDelay 返回下次重试的延迟时间
	// attempt: 当前尝试次数（从 1 开始）
	NextDelay(attempt int) time.Duration
}

// Suspender 定义挂起策略接口。
// 重试循环在两次尝试之间通过 Suspend 暂停当前调用。
//
// 设计决策: 挂起能力由调用方注入而非探测环境，重试循环本身对
// 调度模型保持无感。默认实现见 NewTimerSuspender。
type Suspender interface {
	// Suspend 挂起当前调用 d 时长。
	// 上下文在挂起期间被取消时提前返回上下文错误。
	// d <= 0 时立即返回。
	Suspend(ctx context.Context, d time.Duration) error
}

// SuspendFunc 将函数适配为 Suspender。
type SuspendFunc func(ctx context.Context, d time.Duration) error

// Suspend 实现 Suspender 接口。
func (f SuspendFunc) Suspend(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Executor 重试执行器接口
//
// 设计决策: NewRetryer 返回 *Retryer 而非 Executor 接口，因为泛型函数
// DoWithResult 需要访问 *Retryer 的内部方法。调用方如需 mock 重试执行器，
// 可在自身代码中使用此接口作为函数参数类型。
type Executor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
