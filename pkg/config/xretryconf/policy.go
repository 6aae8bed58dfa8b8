package xretryconf

import (
	"fmt"
	"strings"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// 支持的退避类型名。
const (
	// BackoffLinear 线性退避：延迟随尝试次数线性增长。
	BackoffLinear = "linear"

	// BackoffExponential 指数退避：延迟按倍率指数增长。
	BackoffExponential = "exponential"

	// BackoffFixed 固定退避：每次重试延迟相同。
	BackoffFixed = "fixed"

	// BackoffNone 无退避：立即重试。
	BackoffNone = "none"
)

// Policy 描述一份可序列化的重试策略。
//
// 字段语义与 xretry 对应的策略构建器一致：
// 越界值（max_attempts < 1、负延迟）由构建器收敛，不在此处报错。
type Policy struct {
	// MaxAttempts 最大尝试次数（含首次）。默认 3。
	MaxAttempts int `koanf:"max_attempts"`

	// Backoff 退避类型：linear、exponential、fixed、none。默认 linear。
	Backoff string `koanf:"backoff"`

	// BaseDelay 基础延迟。默认 1s。支持 "200ms" 等字符串写法。
	BaseDelay time.Duration `koanf:"base_delay"`

	// MaxDelay 延迟上限。0 表示不限制。
	MaxDelay time.Duration `koanf:"max_delay"`

	// Multiplier 指数退避倍率，仅对 exponential 生效。默认 2.0。
	Multiplier float64 `koanf:"multiplier"`

	// Jitter 是否启用抖动装饰。默认关闭。
	Jitter bool `koanf:"jitter"`

	// JitterFactor 抖动幅度 [0, 1]，仅在 Jitter 开启时生效。默认 0.5。
	JitterFactor float64 `koanf:"jitter_factor"`
}

// DefaultPolicy 返回默认重试策略。
// 与 xretry.NewRetryer() 的零配置行为一致。
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		Backoff:      BackoffLinear,
		BaseDelay:    time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.5,
	}
}

// Validate 校验策略字段。
// 只拒绝无法收敛的取值（未知退避类型）；数值越界由构建器钳制。
func (p Policy) Validate() error {
	switch strings.ToLower(p.Backoff) {
	case "", BackoffLinear, BackoffExponential, BackoffFixed, BackoffNone:
		return nil
	default:
		return fmt.Errorf("%w: unknown backoff type %q", ErrInvalidPolicy, p.Backoff)
	}
}

// Build 根据策略构建 Retryer。
// extra 追加到策略生成的选项之后，可覆盖策略或注入钩子与挂起器。
func (p Policy) Build(extra ...xretry.RetryerOption) (*xretry.Retryer, error) {
	backoff, err := p.backoffPolicy()
	if err != nil {
		return nil, err
	}

	opts := []xretry.RetryerOption{
		xretry.WithRetryPolicy(xretry.NewFixedRetry(p.MaxAttempts)),
		xretry.WithBackoffPolicy(backoff),
	}
	opts = append(opts, extra...)

	return xretry.NewRetryer(opts...), nil
}

// backoffPolicy 构建退避策略，Jitter 开启时套上抖动装饰。
func (p Policy) backoffPolicy() (xretry.BackoffPolicy, error) {
	base := p.BaseDelay
	if base < 0 {
		base = 0
	}

	var backoff xretry.BackoffPolicy
	switch strings.ToLower(p.Backoff) {
	case "", BackoffLinear:
		var linearOpts []xretry.LinearBackoffOption
		if p.MaxDelay > 0 {
			linearOpts = append(linearOpts, xretry.WithLinearMaxDelay(p.MaxDelay))
		}
		backoff = xretry.NewLinearBackoff(base, linearOpts...)

	case BackoffExponential:
		var expOpts []xretry.ExponentialBackoffOption
		if p.MaxDelay > 0 {
			expOpts = append(expOpts, xretry.WithMaxDelay(p.MaxDelay))
		}
		if p.Multiplier > 0 {
			expOpts = append(expOpts, xretry.WithMultiplier(p.Multiplier))
		}
		backoff = xretry.NewExponentialBackoff(base, expOpts...)

	case BackoffFixed:
		backoff = xretry.NewFixedBackoff(base)

	case BackoffNone:
		backoff = xretry.NewNoBackoff()

	default:
		return nil, fmt.Errorf("%w: unknown backoff type %q", ErrInvalidPolicy, p.Backoff)
	}

	if p.Jitter {
		var jitterOpts []xretry.JitterOption
		if p.JitterFactor > 0 {
			jitterOpts = append(jitterOpts, xretry.WithJitterFactor(p.JitterFactor))
		}
		backoff = xretry.NewJitterBackoff(backoff, jitterOpts...)
	}

	return backoff, nil
}
