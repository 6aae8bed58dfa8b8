package xretry

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// LinearBackoff 线性退避策略
// delay = min(base * attempt, maxDelay)，maxDelay 为 0 时不设上限
type LinearBackoff struct {
	base     time.Duration
	maxDelay time.Duration
}

// LinearBackoffOption 线性退避配置选项
type LinearBackoffOption func(*LinearBackoff)

// WithLinearMaxDelay 设置线性退避的最大延迟
// d <= 0 时静默忽略（保持无上限）。
func WithLinearMaxDelay(d time.Duration) LinearBackoffOption {
	return func(b *LinearBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// NewLinearBackoff 创建线性退避策略
// base 为负时视为 0。默认不设最大延迟上限。
func NewLinearBackoff(base time.Duration, opts ...LinearBackoffOption) *LinearBackoff {
	if base < 0 {
		base = 0
	}
	b := &LinearBackoff{base: base}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxDelay > 0 && b.maxDelay < b.base {
		b.maxDelay = b.base
	}
	return b
}

func (b *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if b.base == 0 {
		return 0
	}

	// 溢出保护：在乘法发生前判断 attempt 是否超过安全乘数
	if time.Duration(attempt) > math.MaxInt64/b.base {
		if b.maxDelay > 0 {
			return b.maxDelay
		}
		return math.MaxInt64
	}

	delay := b.base * time.Duration(attempt)
	if b.maxDelay > 0 && delay > b.maxDelay {
		return b.maxDelay
	}
	return delay
}

// ExponentialBackoff 指数退避策略
// delay = min(base * multiplier^(attempt-1), maxDelay)，maxDelay 为 0 时不设上限
type ExponentialBackoff struct {
	base       time.Duration
	maxDelay   time.Duration
	multiplier float64
}

// ExponentialBackoffOption 指数退避配置选项
type ExponentialBackoffOption func(*ExponentialBackoff)

// WithMaxDelay 设置最大延迟
// d <= 0 时静默忽略（保持无上限）。
func WithMaxDelay(d time.Duration) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if d > 0 {
			b.maxDelay = d
		}
	}
}

// WithMultiplier 设置乘数因子（>= 1.0）
// 传入 1.0 表示固定延迟（无指数增长）。
// 小于 1.0 的值会被忽略（保持默认值 2.0）。
func WithMultiplier(m float64) ExponentialBackoffOption {
	return func(b *ExponentialBackoff) {
		if m >= 1 {
			b.multiplier = m
		}
	}
}

// NewExponentialBackoff 创建指数退避策略
// base 为负时视为 0。默认乘数 2.0，不设最大延迟上限。
func NewExponentialBackoff(base time.Duration, opts ...ExponentialBackoffOption) *ExponentialBackoff {
	if base < 0 {
		base = 0
	}
	b := &ExponentialBackoff{
		base:       base,
		multiplier: 2.0,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxDelay > 0 && b.maxDelay < b.base {
		b.maxDelay = b.base
	}
	return b
}

func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if b.base == 0 {
		return 0
	}

	delay := float64(b.base) * math.Pow(b.multiplier, float64(attempt-1))

	// attempt 极大时 math.Pow 溢出为 +Inf；IEEE 754 中与上限的比较仍然
	// 成立，但转换回 time.Duration 前必须截断。
	overflowed := delay < 0 || delay >= float64(math.MaxInt64)
	if b.maxDelay > 0 && (overflowed || delay >= float64(b.maxDelay)) {
		return b.maxDelay
	}
	if overflowed {
		return math.MaxInt64
	}
	return time.Duration(delay)
}

// FixedBackoff 固定延迟退避策略
type FixedBackoff struct {
	delay time.Duration
}

// NewFixedBackoff 创建固定延迟退避策略
func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	if delay < 0 {
		delay = 0
	}
	return &FixedBackoff{delay: delay}
}

func (b *FixedBackoff) NextDelay(_ int) time.Duration {
	return b.delay
}

// NoBackoff 无延迟退避策略
type NoBackoff struct{}

// NewNoBackoff 创建无延迟退避策略
func NewNoBackoff() *NoBackoff {
	return &NoBackoff{}
}

func (b *NoBackoff) NextDelay(_ int) time.Duration {
	return 0
}

// JitterBackoff 抖动装饰器
// 将内层策略的延迟乘以 [1-factor, 1+factor) 范围内的均匀随机因子。
// 抖动在退避放大之后施加，默认 factor 0.5，即 [0.5, 1.5) 倍缩放。
type JitterBackoff struct {
	inner     BackoffPolicy
	factor    float64
	randFloat func() float64
}

// JitterOption 抖动装饰器配置选项
type JitterOption func(*JitterBackoff)

// WithJitterFactor 设置抖动因子（0-1 之间）
// 超出区间的值会被截断。0 表示无抖动。
func WithJitterFactor(f float64) JitterOption {
	return func(b *JitterBackoff) {
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		b.factor = f
	}
}

// WithRandomSource 注入随机源，fn 须返回 [0, 1) 范围内的均匀随机数。
// 主要用于测试中固定随机序列以断言延迟边界。nil 被静默忽略。
func WithRandomSource(fn func() float64) JitterOption {
	return func(b *JitterBackoff) {
		if fn != nil {
			b.randFloat = fn
		}
	}
}

// NewJitterBackoff 创建抖动装饰器
// inner 为 nil 时退化为 NoBackoff。默认因子 0.5，
// 默认随机源使用 crypto/rand。
func NewJitterBackoff(inner BackoffPolicy, opts ...JitterOption) *JitterBackoff {
	if inner == nil {
		inner = NewNoBackoff()
	}
	b := &JitterBackoff{
		inner:     inner,
		factor:    0.5,
		randFloat: randomFloat64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *JitterBackoff) NextDelay(attempt int) time.Duration {
	delay := b.inner.NextDelay(attempt)
	if delay <= 0 || b.factor == 0 {
		if delay < 0 {
			return 0
		}
		return delay
	}

	jitterFactor := 1.0 + (b.randFloat()*2-1)*b.factor
	scaled := float64(delay) * jitterFactor
	if scaled < 0 {
		return 0
	}
	if scaled >= float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return time.Duration(scaled)
}

// Inner 返回被装饰的退避策略，便于调用方检查抖动前的名义延迟。
func (b *JitterBackoff) Inner() BackoffPolicy {
	return b.inner
}

// 确保实现了接口
var (
	_ BackoffPolicy = (*LinearBackoff)(nil)
	_ BackoffPolicy = (*ExponentialBackoff)(nil)
	_ BackoffPolicy = (*FixedBackoff)(nil)
	_ BackoffPolicy = (*NoBackoff)(nil)
	_ BackoffPolicy = (*JitterBackoff)(nil)
)

const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand 失败时返回 0，这意味着抖动取区间下界（安全默认值）
		return 0
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}
