package xretry

import "log/slog"

// LogOnRetry 返回一个用 slog 记录重试事件的回调，可直接传给 WithOnRetry。
// logger 为 nil 时使用 slog.Default()。
//
// 本包自身从不记录日志，终止失败始终以错误返回值向调用方传播；
// 此回调仅为常见的观测需求提供现成实现。
func LogOnRetry(logger *slog.Logger) func(attempt int, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(attempt int, err error) {
		logger.Warn("retry scheduled",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
	}
}
