package xretry

import (
	"context"
	"errors"
)

// FixedRetryPolicy 固定次数重试策略
type FixedRetryPolicy struct {
	maxAttempts int
}

// NewFixedRetry 创建固定次数重试策略
// maxAttempts: 最大尝试次数（包含首次尝试），小于 1 时提升为 1（即不重试）
func NewFixedRetry(maxAttempts int) *FixedRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedRetryPolicy{maxAttempts: maxAttempts}
}

func (p *FixedRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *FixedRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	return IsRetryable(err)
}

// AlwaysRetryPolicy 无限重试策略（慎用）
// 只有上下文取消或遇到永久性错误才会停止
type AlwaysRetryPolicy struct{}

// NewAlwaysRetry 创建无限重试策略
func NewAlwaysRetry() *AlwaysRetryPolicy {
	return &AlwaysRetryPolicy{}
}

func (p *AlwaysRetryPolicy) MaxAttempts() int {
	return 0 // 0 表示无限
}

func (p *AlwaysRetryPolicy) ShouldRetry(ctx context.Context, _ int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return IsRetryable(err)
}

// NeverRetryPolicy 永不重试策略
type NeverRetryPolicy struct{}

// NewNeverRetry 创建永不重试策略
func NewNeverRetry() *NeverRetryPolicy {
	return &NeverRetryPolicy{}
}

func (p *NeverRetryPolicy) MaxAttempts() int {
	return 1
}

func (p *NeverRetryPolicy) ShouldRetry(_ context.Context, _ int, _ error) bool {
	return false
}

// MatchRetryPolicy 错误集合匹配策略
// 仅当错误匹配给定集合中的任一目标（errors.Is 语义）时才重试，
// 其他错误立即向上传播。
type MatchRetryPolicy struct {
	maxAttempts int
	targets     []error
}

// NewRetryOn 创建错误集合匹配策略
// maxAttempts 小于 1 时提升为 1。targets 为空时不匹配任何错误，
// 等价于 NeverRetryPolicy。
func NewRetryOn(maxAttempts int, targets ...error) *MatchRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MatchRetryPolicy{maxAttempts: maxAttempts, targets: targets}
}

func (p *MatchRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *MatchRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	for _, target := range p.targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// PredicateRetryPolicy 闭包判断策略
// 错误分类完全交给调用方提供的谓词函数。
type PredicateRetryPolicy struct {
	maxAttempts int
	predicate   func(err error) bool
}

// NewRetryIf 创建闭包判断策略
// maxAttempts 小于 1 时提升为 1。predicate 为 nil 时退化为默认的
// IsRetryable 分类。
func NewRetryIf(maxAttempts int, predicate func(err error) bool) *PredicateRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if predicate == nil {
		predicate = IsRetryable
	}
	return &PredicateRetryPolicy{maxAttempts: maxAttempts, predicate: predicate}
}

func (p *PredicateRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *PredicateRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if attempt >= p.maxAttempts {
		return false
	}
	return p.predicate(err)
}

// 确保实现了 RetryPolicy 接口
var (
	_ RetryPolicy = (*FixedRetryPolicy)(nil)
	_ RetryPolicy = (*AlwaysRetryPolicy)(nil)
	_ RetryPolicy = (*NeverRetryPolicy)(nil)
	_ RetryPolicy = (*MatchRetryPolicy)(nil)
	_ RetryPolicy = (*PredicateRetryPolicy)(nil)
)
