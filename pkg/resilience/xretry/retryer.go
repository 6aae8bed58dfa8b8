package xretry

import (
	"context"
	"time"
)

// 默认配置，与 NewFixedRetry(3) + NewLinearBackoff(1s) 对应。
// 设计决策: 默认值通过 defaultRetryer 每次调用重新构造，
// 不存在进程级共享的默认配置对象，调用之间不可能互相污染。
const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// 确保 *Retryer 实现 Executor 接口
var _ Executor = (*Retryer)(nil)

// Retryer 重试执行器
//
// Retryer 组合了 RetryPolicy（重试策略）、BackoffPolicy（退避策略）
// 和 Suspender（挂起策略），提供统一的重试执行能力。
//
// 重试循环由本包实现；已使用 retry-go 的调用方可通过 Retrier()
// 方法获取按相同策略配置的原生实例。
type Retryer struct {
	retryPolicy   RetryPolicy
	backoffPolicy BackoffPolicy
	suspender     Suspender
	onRetry       func(attempt int, err error)
	onSuccess     func(attempt int)
	onFailure     func(attempt int, err error)
}

// RetryerOption 执行器配置选项
type RetryerOption func(*Retryer)

// WithRetryPolicy 设置重试策略
func WithRetryPolicy(p RetryPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.retryPolicy = p
		}
	}
}

// WithBackoffPolicy 设置退避策略
func WithBackoffPolicy(p BackoffPolicy) RetryerOption {
	return func(r *Retryer) {
		if p != nil {
			r.backoffPolicy = p
		}
	}
}

// WithSuspender 设置挂起策略
// 传入 nil 会被静默忽略（保持默认的计时器实现）。
func WithSuspender(s Suspender) RetryerOption {
	return func(r *Retryer) {
		if s != nil {
			r.suspender = s
		}
	}
}

// WithOnRetry 设置重试回调函数。
// 回调在错误被判定为可重试之后、挂起之前触发，每次实际重试恰好一次；
// 首次尝试和最终失败的尝试不会触发。回调仅用于观测，不参与控制流，
// 回调内的 panic 不受保护，会中止重试循环向上传播。
// 传入 nil 会被静默忽略（与 WithRetryPolicy/WithBackoffPolicy 保持一致）。
func WithOnRetry(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onRetry = f
		}
	}
}

// WithOnSuccess 设置成功回调函数。
// 在某次尝试成功返回后触发一次，attempt 为成功时的尝试序号。
func WithOnSuccess(f func(attempt int)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onSuccess = f
		}
	}
}

// WithOnFailure 设置终止失败回调函数。
// 在错误被判定为终止失败（不可重试或次数耗尽）时触发一次。
func WithOnFailure(f func(attempt int, err error)) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.onFailure = f
		}
	}
}

// NewRetryer 创建重试执行器
// 默认使用 FixedRetry(3)、LinearBackoff(1s) 和计时器挂起
//
// 设计决策: 返回 *Retryer 而非 Executor 接口，因为泛型函数 DoWithResult
// 需要访问内部方法。如需 mock，请在调用方使用 Executor 接口作为参数类型。
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := defaultRetryer()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// defaultRetryer 返回一个新的默认配置执行器。
func defaultRetryer() *Retryer {
	return &Retryer{
		retryPolicy:   NewFixedRetry(defaultMaxAttempts),
		backoffPolicy: NewLinearBackoff(defaultBaseDelay),
		suspender:     NewTimerSuspender(),
	}
}

// Do 执行带重试的操作
//
// fn 返回 nil 时立即返回成功；失败时按 RetryPolicy 分类，
// 可重试则按 BackoffPolicy 计算延迟并通过 Suspender 挂起后重试。
// 终止失败原样返回最后一次底层错误，不做包装。
// 如果接收者为 nil，返回 ErrNilRetryer。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return ErrNilRetryer
	}
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}
	_, err := run(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoWithResult 执行带重试的操作（有返回值）
//
// 这是泛型函数，必须作为包级函数使用。
// 如果 r 为 nil，返回零值和 ErrNilRetryer。
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNilRetryer
	}
	if ctx == nil {
		return zero, ErrNilContext
	}
	if fn == nil {
		return zero, ErrNilFunc
	}
	return run(ctx, r, fn)
}

// Do 包级便捷函数，等价于 NewRetryer(opts...).Do(ctx, fn)。
func Do(ctx context.Context, fn func(ctx context.Context) error, opts ...RetryerOption) error {
	return NewRetryer(opts...).Do(ctx, fn)
}

// run 重试循环本体。调用方负责参数校验。
//
// 尝试计数器是循环局部变量，每次调用独立，调用之间无共享可变状态。
// 尝试严格串行，回调与 fn 在同一 goroutine 中触发。
func run[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	// 防止零值 Retryer 使用时 panic
	retryPolicy := r.retryPolicy
	if retryPolicy == nil {
		retryPolicy = NewFixedRetry(defaultMaxAttempts)
	}
	backoffPolicy := r.backoffPolicy
	if backoffPolicy == nil {
		backoffPolicy = NewLinearBackoff(defaultBaseDelay)
	}
	suspender := r.suspender
	if suspender == nil {
		suspender = NewTimerSuspender()
	}

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			if r.onSuccess != nil {
				r.onSuccess(attempt)
			}
			return result, nil
		}

		// Unrecoverable（retry-go 标记）在 ShouldRetry 之前短路
		if !IsRecoverable(err) || !retryPolicy.ShouldRetry(ctx, attempt, err) {
			if r.onFailure != nil {
				r.onFailure(attempt, err)
			}
			return zero, err
		}

		if r.onRetry != nil {
			r.onRetry(attempt, err)
		}
		if serr := suspender.Suspend(ctx, backoffPolicy.NextDelay(attempt)); serr != nil {
			return zero, serr
		}
	}
}

// RetryPolicy 返回当前重试策略。
// nil 接收者返回 nil。
func (r *Retryer) RetryPolicy() RetryPolicy {
	if r == nil {
		return nil
	}
	return r.retryPolicy
}

// BackoffPolicy 返回当前退避策略。
// nil 接收者返回 nil。
func (r *Retryer) BackoffPolicy() BackoffPolicy {
	if r == nil {
		return nil
	}
	return r.backoffPolicy
}

// Suspender 返回当前挂起策略。
// nil 接收者返回 nil。
func (r *Retryer) Suspender() Suspender {
	if r == nil {
		return nil
	}
	return r.suspender
}
