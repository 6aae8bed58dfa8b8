// Package xretryotel 提供 xretry 的 OpenTelemetry 观测能力。
//
// # 设计理念
//
// xretry 核心不依赖任何观测框架，所有观测通过钩子注入。
// xretryotel 把这些钩子接到 OpenTelemetry 上，提供两种接入方式：
//
//  1. 钩子模式：OnRetry 生成一个与 xretry.WithOnRetry 兼容的回调，
//     每次重试递增计数器。适合已有 Retryer 构建流程的场景。
//  2. 包裹模式：Do / DoWithResult 把整个重试调用包在一个 span 中，
//     记录尝试次数直方图和最终状态。
//
// 两种方式记录的指标有重叠（重试计数），同一个 Observer
// 不要同时以两种方式接到同一次调用上。
//
// # 指标
//
//   - retrykit.retry.retries.total（计数器）：实际发生的重试次数，
//     维度 component、operation。
//   - retrykit.retry.attempts（直方图）：每次完整调用的尝试次数，
//     维度 component、operation、status。
//
// # 示例
//
//	obs, _ := xretryotel.NewObserver()
//	r := xretry.NewRetryer(
//	    xretry.WithOnRetry(obs.OnRetry("billing", "charge")),
//	)
//
// 或包裹整个调用：
//
//	err := obs.Do(ctx, r, "billing", "charge", chargeOnce)
package xretryotel
