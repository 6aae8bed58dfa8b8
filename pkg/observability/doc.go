// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xretryotel: 重试过程的 OpenTelemetry 指标与追踪
//
// 设计原则：
//   - 核心库不依赖观测框架，观测能力通过钩子注入
//   - 遵循 OpenTelemetry 语义规范
package observability
