// Package xretry 提供通用的重试执行器及退避策略。
//
// # 设计理念
//
// xretry 采用接口驱动设计：
//   - RetryPolicy：定义是否应该重试（次数上限 + 错误分类）
//   - BackoffPolicy：定义重试间隔时间
//   - Suspender：定义如何挂起当前尝试（可注入，便于测试和自定义调度）
//
// 重试循环由本包自身实现：显式的迭代循环加本地尝试计数器，
// 每次 Do 调用持有独立的计数状态，调用之间互不干扰。
//
// # 重试策略
//
// 内置五种重试策略：
//   - FixedRetryPolicy：固定次数重试（默认，3 次）
//   - AlwaysRetryPolicy：无限重试（慎用）
//   - NeverRetryPolicy：永不重试
//   - MatchRetryPolicy：仅重试匹配给定错误集合的错误（errors.Is 语义）
//   - PredicateRetryPolicy：由调用方闭包判断错误是否可重试
//
// # 退避策略
//
// 内置四种退避策略及一个装饰器：
//   - LinearBackoff：线性退避，delay = base * attempt（默认，base 1s）
//   - ExponentialBackoff：指数退避，delay = base * multiplier^(attempt-1)
//   - FixedBackoff：固定延迟
//   - NoBackoff：无延迟
//   - JitterBackoff：抖动装饰器，将内层延迟乘以 [1-f, 1+f) 的均匀随机因子
//
// # 挂起策略
//
// 重试间隔通过 Suspender 挂起当前调用。默认实现基于计时器阻塞当前
// goroutine 并响应上下文取消；goroutine 即 Go 的协作调度单元，
// 挂起不会影响其他并发工作。测试或特殊调度场景可通过 WithSuspender
// 注入自定义实现（如虚拟时钟）。
//
// # 使用方式
//
// 方式一：使用 Retryer
//
//	retryer := xretry.NewRetryer(
//	    xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
//	    xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(100*time.Millisecond)),
//	)
//	err := retryer.Do(ctx, func(ctx context.Context) error {
//	    return doSomething()
//	})
//
// 方式二：包级便捷函数
//
//	err := xretry.Do(ctx, func(ctx context.Context) error {
//	    return doSomething()
//	}, xretry.WithRetryPolicy(xretry.NewFixedRetry(5)))
//
// # 错误分类
//
//   - NewPermanentError(err)：标记为永久性错误（不应重试）
//   - NewTemporaryError(err)：标记为临时性错误（应该重试）
//   - Unrecoverable(err)：retry-go 风格的不可恢复错误，同样被循环识别
//
// 终止失败始终原样返回最后一次底层错误，不做包装，调用方可用
// errors.Is / errors.As 检查错误身份。唯一的例外是挂起期间上下文被
// 取消，此时返回上下文错误。
//
// # retry-go 互操作
//
// 已使用 [avast/retry-go/v5] 的调用方可通过 Retrier / RetrierWithData
// 获取按本包策略配置的原生实例，或用 ToDelayType / ToTimer 将
// BackoffPolicy 和 Suspender 适配为 retry-go 的扩展点。
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
