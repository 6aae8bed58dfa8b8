package xretryotel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

const (
	defaultInstrumentationName = "github.com/omeyang/retrykit/xretryotel"
	unknownComponent           = "unknown"
	unknownOperation           = "unknown"

	metricRetriesTotal = "retrykit.retry.retries.total"
	metricAttempts     = "retrykit.retry.attempts"

	statusOK    = "ok"
	statusError = "error"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// Option 定义 Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// Observer 把重试过程接到 OpenTelemetry 的 tracer 和 meter 上。
type Observer struct {
	tracer   trace.Tracer
	retries  metric.Int64Counter
	attempts metric.Int64Histogram
}

// NewObserver 创建基于 OpenTelemetry 的重试观测器。
// 未指定 provider 时使用 otel 全局默认。
func NewObserver(opts ...Option) (*Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(cfg.instrumentationName)
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	retries, err := meter.Int64Counter(
		metricRetriesTotal,
		metric.WithDescription("total retries performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xretryotel: create counter failed: %w", err)
	}

	attempts, err := meter.Int64Histogram(
		metricAttempts,
		metric.WithDescription("attempts per retried call"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xretryotel: create histogram failed: %w", err)
	}

	return &Observer{
		tracer:   tracer,
		retries:  retries,
		attempts: attempts,
	}, nil
}

// OnRetry 生成一个与 xretry.WithOnRetry 兼容的回调。
// 每次实际发生的重试递增 retrykit.retry.retries.total。
//
//	r := xretry.NewRetryer(
//	    xretry.WithOnRetry(obs.OnRetry("billing", "charge")),
//	)
func (o *Observer) OnRetry(component, operation string) func(attempt int, err error) {
	component, operation = normalizeNames(component, operation)
	attrs := metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
	)

	return func(attempt int, err error) {
		o.retries.Add(context.Background(), 1, attrs)
	}
}

// Do 把整个重试调用包在一个 span 中执行。
//
// span 记录最终状态和尝试次数；retrykit.retry.attempts 直方图
// 记录本次调用的尝试总数，retrykit.retry.retries.total 记录重试数。
// 返回的错误与 r.Do 一致，不做任何包装。
func (o *Observer) Do(ctx context.Context, r *xretry.Retryer, component, operation string, fn func(ctx context.Context) error) error {
	_, err := DoWithResult(ctx, o, r, component, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoWithResult 与 Observer.Do 相同，但支持返回值。
// 由于方法不支持类型参数，以包级函数提供。
func DoWithResult[T any](ctx context.Context, o *Observer, r *xretry.Retryer, component, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	if o == nil {
		return xretry.DoWithResult(ctx, r, fn)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	component, operation = normalizeNames(component, operation)

	ctx, span := o.tracer.Start(
		ctx,
		operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("component", component),
			attribute.String("operation", operation),
		),
	)

	var attempts int64
	result, err := xretry.DoWithResult(ctx, r, func(ctx context.Context) (T, error) {
		attempts++
		return fn(ctx)
	})

	status := statusOK
	if err != nil {
		status = statusError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Int64("retry.attempts", attempts))
	span.End()

	// 使用不可取消的 context 记录指标，确保即使请求 context 已取消/超时，
	// 指标仍能正确记录
	metricsCtx := context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	o.attempts.Record(metricsCtx, attempts, attrs)
	if attempts > 1 {
		o.retries.Add(metricsCtx, attempts-1, metric.WithAttributes(
			attribute.String("component", component),
			attribute.String("operation", operation),
		))
	}

	return result, err
}

func normalizeNames(component, operation string) (string, string) {
	if component == "" {
		component = unknownComponent
	}
	if operation == "" {
		operation = unknownOperation
	}
	return component, operation
}
