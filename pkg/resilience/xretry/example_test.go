package xretry_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

func ExampleNewRetryer() {
	r := xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)

	var attempts int
	err := r.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: <nil>
	// attempts: 3
}

func ExampleDo() {
	var attempts int
	err := xretry.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary error")
		}
		return nil
	},
		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: <nil>
	// attempts: 2
}

func ExampleDoWithResult() {
	r := xretry.NewRetryer(xretry.WithBackoffPolicy(xretry.NewNoBackoff()))

	result, err := xretry.DoWithResult(context.Background(), r, func(_ context.Context) (string, error) {
		return "hello", nil
	})

	fmt.Println("result:", result)
	fmt.Println("error:", err)
	// Output:
	// result: hello
	// error: <nil>
}

func ExampleNewLinearBackoff() {
	backoff := xretry.NewLinearBackoff(100 * time.Millisecond)

	fmt.Println("attempt 1:", backoff.NextDelay(1))
	fmt.Println("attempt 2:", backoff.NextDelay(2))
	fmt.Println("attempt 3:", backoff.NextDelay(3))
	// Output:
	// attempt 1: 100ms
	// attempt 2: 200ms
	// attempt 3: 300ms
}

func ExampleNewExponentialBackoff() {
	backoff := xretry.NewExponentialBackoff(
		100*time.Millisecond,
		xretry.WithMaxDelay(5*time.Second),
		xretry.WithMultiplier(2.0),
	)

	fmt.Println("attempt 1:", backoff.NextDelay(1))
	fmt.Println("attempt 2:", backoff.NextDelay(2))
	fmt.Println("attempt 3:", backoff.NextDelay(3))
	// Output:
	// attempt 1: 100ms
	// attempt 2: 200ms
	// attempt 3: 400ms
}

func ExampleNewJitterBackoff() {
	backoff := xretry.NewJitterBackoff(
		xretry.NewLinearBackoff(100*time.Millisecond),
		// 固定随机源便于演示确定性输出；省略时使用 crypto/rand
		xretry.WithRandomSource(func() float64 { return 0.5 }),
	)

	fmt.Println("attempt 1:", backoff.NextDelay(1))
	fmt.Println("attempt 2:", backoff.NextDelay(2))
	// Output:
	// attempt 1: 100ms
	// attempt 2: 200ms
}

func ExampleNewRetryOn() {
	errTimeout := errors.New("timeout")

	r := xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewRetryOn(3, errTimeout)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)

	var attempts int
	err := r.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return errors.New("schema mismatch") // 不在重试集合中
	})

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: schema mismatch
	// attempts: 1
}

func ExampleNewPermanentError() {
	var attempts int
	err := xretry.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return xretry.NewPermanentError(errors.New("invalid input"))
	},
		xretry.WithRetryPolicy(xretry.NewFixedRetry(5)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	)

	fmt.Println("attempts:", attempts)
	fmt.Println("is retryable:", xretry.IsRetryable(err))
	// Output:
	// attempts: 1
	// is retryable: false
}

func ExampleWithSuspender() {
	// 注入自定义挂起器：测试或虚拟时钟场景下不真正等待
	var suspensions []time.Duration
	r := xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
		xretry.WithBackoffPolicy(xretry.NewLinearBackoff(time.Second)),
		xretry.WithSuspender(xretry.SuspendFunc(func(_ context.Context, d time.Duration) error {
			suspensions = append(suspensions, d)
			return nil
		})),
	)

	_ = r.Do(context.Background(), func(_ context.Context) error {
		return errors.New("always fails")
	})

	fmt.Println("suspensions:", suspensions)
	// Output:
	// suspensions: [1s 2s]
}
