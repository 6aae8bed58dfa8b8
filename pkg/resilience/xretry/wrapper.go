package xretry

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// 设计决策: 以下类型别名和变量别名镜像 avast/retry-go/v5 的 API 表面，
// 使已使用 retry-go 的调用方无需直接依赖第三方包即可与本包的策略互操作，
// 便于未来替换底层实现。
type (
	// Option 是 retry-go 的配置选项类型
	Option = retry.Option

	// OnRetryFunc 是重试回调函数类型
	// attempt: 当前尝试次数（从 0 开始）
	// err: 上次执行的错误
	OnRetryFunc = retry.OnRetryFunc

	// RetryIfFunc 是重试条件判断函数类型
	RetryIfFunc = retry.RetryIfFunc

	// DelayTypeFunc 是延迟类型函数
	DelayTypeFunc = retry.DelayTypeFunc

	// DelayContext 提供延迟计算所需的配置值
	DelayContext = retry.DelayContext

	// Timer 表示用于跟踪重试时间的计时器接口
	Timer = retry.Timer

	// Error 表示重试过程中的错误列表
	Error = retry.Error
)

// 以下是 retry-go 的配置选项函数
var (
	// Attempts 设置总尝试次数（包含首次尝试），设置为 0 表示无限重试。
	Attempts = retry.Attempts

	// UntilSucceeded 无限重试直到成功，等同于 Attempts(0)
	UntilSucceeded = retry.UntilSucceeded

	// AttemptsForError 针对特定错误设置重试次数
	AttemptsForError = retry.AttemptsForError

	// Delay 设置重试间隔
	Delay = retry.Delay

	// MaxDelay 设置最大重试间隔
	MaxDelay = retry.MaxDelay

	// MaxJitter 设置最大抖动时间
	MaxJitter = retry.MaxJitter

	// DelayType 设置延迟类型
	DelayType = retry.DelayType

	// OnRetry 设置重试回调函数
	OnRetry = retry.OnRetry

	// RetryIf 设置重试条件判断函数
	RetryIf = retry.RetryIf

	// Context 设置上下文
	Context = retry.Context

	// WithTimer 设置自定义计时器（主要用于测试）
	WithTimer = retry.WithTimer

	// LastErrorOnly 只返回最后一个错误
	LastErrorOnly = retry.LastErrorOnly
)

// 以下是 retry-go 的错误处理函数
var (
	// Unrecoverable 将错误标记为不可恢复（不再重试）
	// 这是 retry-go 原生的不可恢复错误标记，重试循环同样会识别
	Unrecoverable = retry.Unrecoverable

	// IsRecoverable 检查错误是否可恢复
	IsRecoverable = retry.IsRecoverable
)

// safeIntToUint 将 int 安全转换为 uint。
// 负数返回 0，正数直接转换。
// 用于将 MaxAttempts (int) 传递给 retry-go 的 Attempts (uint)。
func safeIntToUint(n int) uint {
	if n <= 0 {
		return 0
	}
	return uint(n)
}

// safeUintToInt 将 uint 安全转换为 int。
// 超过 MaxInt 的值会被截断到 MaxInt。
func safeUintToInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

// ToDelayType 将 BackoffPolicy 转换为 retry-go 的 DelayTypeFunc
//
// 示例:
//
//	backoff := xretry.NewExponentialBackoff(100 * time.Millisecond)
//	retrier := xretry.NewRetrier(
//	    xretry.Attempts(3),
//	    xretry.DelayType(xretry.ToDelayType(backoff)),
//	)
func ToDelayType(policy BackoffPolicy) DelayTypeFunc {
	if policy == nil {
		return func(_ uint, _ error, _ DelayContext) time.Duration {
			return 0
		}
	}
	return func(n uint, _ error, _ DelayContext) time.Duration {
		// retry-go v5 中 DelayType 的 n 从 1 开始，与 NextDelay 一致
		return policy.NextDelay(safeUintToInt(n))
	}
}

// ToRetryIf 将 RetryPolicy 转换为 retry-go 的 RetryIfFunc
//
// 返回的函数内部维护失败计数（1-based），与 RetryPolicy.ShouldRetry
// 的 attempt 参数语义一致，因此为一次性使用：同一个 RetryIfFunc
// 用于多次独立的重试调用会导致计数累积。
// 设计决策: 使用 atomic.Int64 而非普通 int，确保逃逸后被并发调用
// 也不会触发数据竞争。
func ToRetryIf(ctx context.Context, policy RetryPolicy) RetryIfFunc {
	if ctx == nil {
		ctx = context.Background()
	}
	if policy == nil {
		policy = NewFixedRetry(defaultMaxAttempts)
	}
	var attemptCount atomic.Int64
	return func(err error) bool {
		count := int(attemptCount.Add(1))
		if !IsRecoverable(err) {
			return false
		}
		return policy.ShouldRetry(ctx, count, err)
	}
}

// ToTimer 将 Suspender 适配为 retry-go 的 Timer
//
// 挂起在后台 goroutine 中执行，完成后向返回的通道发送当前时间。
// 挂起错误（如上下文取消）被视为等待结束。s 为 nil 时使用默认实现。
func ToTimer(s Suspender) Timer {
	if s == nil {
		s = NewTimerSuspender()
	}
	return &suspendTimer{s: s}
}

type suspendTimer struct {
	s Suspender
}

func (t *suspendTimer) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	go func() {
		_ = t.s.Suspend(context.Background(), d)
		ch <- time.Now()
	}()
	return ch
}

// NewRetrier 创建一个底层的 retry.Retrier
//
// 设计决策: Retryer（本包的策略化执行器）与 Retrier（retry-go 原生实例）
// 命名仅一字母差异，但语义不同。Retryer 通过 RetryPolicy/BackoffPolicy
// 接口提供抽象；Retrier 直接暴露 retry-go 的完整配置能力。
func NewRetrier(opts ...Option) *retry.Retrier {
	return retry.New(opts...)
}

// NewRetrierWithData 创建一个带返回值的底层 retry.RetrierWithData
func NewRetrierWithData[T any](opts ...Option) *retry.RetrierWithData[T] {
	return retry.NewWithData[T](opts...)
}

// retrierOptions 将 Retryer 的策略组合转换为 retry-go 的选项切片。
// 设计决策: 每次调用重建选项切片，分配开销对重试场景完全可接受；
// 预构建不变选项会增加并发安全复杂度，收益微乎其微。
func (r *Retryer) retrierOptions(ctx context.Context) []Option {
	opts := make([]Option, 0, 7)

	opts = append(opts, Context(ctx))

	retryPolicy := r.retryPolicy
	if retryPolicy == nil {
		retryPolicy = NewFixedRetry(defaultMaxAttempts)
	}
	backoffPolicy := r.backoffPolicy
	if backoffPolicy == nil {
		backoffPolicy = NewLinearBackoff(defaultBaseDelay)
	}

	// maxAttempts <= 0 视为无限重试
	maxAttempts := retryPolicy.MaxAttempts()
	if maxAttempts <= 0 {
		opts = append(opts, UntilSucceeded())
	} else {
		opts = append(opts, Attempts(safeIntToUint(maxAttempts)))
	}

	// Attempts 设置 retry-go 的硬上限，RetryIf 中的 ShouldRetry 提供
	// 更灵活的逐次判断。两者共同生效——ShouldRetry 可提前终止，
	// 但不会超过 Attempts 上限。
	opts = append(opts, RetryIf(ToRetryIf(ctx, retryPolicy)))

	opts = append(opts, DelayType(ToDelayType(backoffPolicy)))

	if r.suspender != nil {
		opts = append(opts, WithTimer(ToTimer(r.suspender)))
	}

	if r.onRetry != nil {
		onRetry := r.onRetry
		opts = append(opts, OnRetry(func(n uint, err error) {
			// retry-go v5 中 OnRetry 的 n 从 0 开始，需要 +1 转换为 1-based
			onRetry(safeUintToInt(n)+1, err)
		}))
	}

	// 只返回最后一个错误，与 Retryer.Do 的传播语义一致
	opts = append(opts, LastErrorOnly(true))

	return opts
}

// Retrier 返回按本执行器策略配置的 retry.Retrier
//
// 重要: 返回的实例为一次性使用（类比 strings.Builder）。
// 内部 RetryIf 闭包维护了失败计数状态，对同一实例多次调用 Do()
// 会导致计数累积，产生非预期的重试行为（重试次数异常减少）。
// 每次需要重试时应重新调用 Retrier() 获取新实例。
//
// 设计决策: nil ctx 归一化为 context.Background() 而非返回错误，
// 因为此方法不返回 error，且与 nil 接收者的"提供可用默认值"语义一致。
func (r *Retryer) Retrier(ctx context.Context) *retry.Retrier {
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		return retry.New(Context(ctx))
	}
	return retry.New(r.retrierOptions(ctx)...)
}

// RetrierWithData 返回按执行器策略配置的 retry.RetrierWithData
//
// 与 Retrier() 类似，但用于需要返回值的场景。
// 返回的实例同样为一次性使用，详见 Retrier 方法的文档说明。
func RetrierWithData[T any](ctx context.Context, r *Retryer) *retry.RetrierWithData[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		return retry.NewWithData[T](Context(ctx))
	}
	return retry.NewWithData[T](r.retrierOptions(ctx)...)
}
