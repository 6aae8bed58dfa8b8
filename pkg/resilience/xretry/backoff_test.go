package xretry

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearBackoff(t *testing.T) {
	t.Run("GrowsWithAttempt", func(t *testing.T) {
		b := NewLinearBackoff(100 * time.Millisecond)

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 200*time.Millisecond, b.NextDelay(2))
		assert.Equal(t, 500*time.Millisecond, b.NextDelay(5))
	})

	t.Run("AttemptBelowOneClampedToOne", func(t *testing.T) {
		b := NewLinearBackoff(100 * time.Millisecond)

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
		assert.Equal(t, 100*time.Millisecond, b.NextDelay(-3))
	})

	t.Run("NegativeBaseClampedToZero", func(t *testing.T) {
		b := NewLinearBackoff(-time.Second)

		assert.Equal(t, time.Duration(0), b.NextDelay(1))
		assert.Equal(t, time.Duration(0), b.NextDelay(100))
	})

	t.Run("MaxDelayCap", func(t *testing.T) {
		b := NewLinearBackoff(100*time.Millisecond, WithLinearMaxDelay(250*time.Millisecond))

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 200*time.Millisecond, b.NextDelay(2))
		assert.Equal(t, 250*time.Millisecond, b.NextDelay(3))
		assert.Equal(t, 250*time.Millisecond, b.NextDelay(100))
	})

	t.Run("MaxDelayBelowBaseRaisedToBase", func(t *testing.T) {
		b := NewLinearBackoff(time.Second, WithLinearMaxDelay(time.Millisecond))

		assert.Equal(t, time.Second, b.NextDelay(1))
		assert.Equal(t, time.Second, b.NextDelay(10))
	})

	t.Run("OverflowSaturates", func(t *testing.T) {
		b := NewLinearBackoff(time.Hour)

		delay := b.NextDelay(math.MaxInt)
		assert.Equal(t, time.Duration(math.MaxInt64), delay)
	})

	t.Run("MonotonicNonDecreasing", func(t *testing.T) {
		b := NewLinearBackoff(3*time.Millisecond, WithLinearMaxDelay(time.Second))

		prev := time.Duration(0)
		for attempt := 1; attempt <= 1000; attempt++ {
			d := b.NextDelay(attempt)
			assert.GreaterOrEqual(t, d, prev)
			prev = d
		}
	})
}

func TestExponentialBackoff(t *testing.T) {
	t.Run("DoublesByDefault", func(t *testing.T) {
		b := NewExponentialBackoff(100 * time.Millisecond)

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 200*time.Millisecond, b.NextDelay(2))
		assert.Equal(t, 400*time.Millisecond, b.NextDelay(3))
		assert.Equal(t, 800*time.Millisecond, b.NextDelay(4))
	})

	t.Run("CustomMultiplier", func(t *testing.T) {
		b := NewExponentialBackoff(100*time.Millisecond, WithMultiplier(3.0))

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 300*time.Millisecond, b.NextDelay(2))
		assert.Equal(t, 900*time.Millisecond, b.NextDelay(3))
	})

	t.Run("MultiplierOneIsFixed", func(t *testing.T) {
		b := NewExponentialBackoff(100*time.Millisecond, WithMultiplier(1.0))

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
		assert.Equal(t, 100*time.Millisecond, b.NextDelay(10))
	})

	t.Run("MultiplierBelowOneIgnored", func(t *testing.T) {
		b := NewExponentialBackoff(100*time.Millisecond, WithMultiplier(0.5))

		// 保持默认乘数 2.0
		assert.Equal(t, 200*time.Millisecond, b.NextDelay(2))
	})

	t.Run("MaxDelayCap", func(t *testing.T) {
		b := NewExponentialBackoff(100*time.Millisecond, WithMaxDelay(time.Second))

		assert.Equal(t, 800*time.Millisecond, b.NextDelay(4))
		assert.Equal(t, time.Second, b.NextDelay(5))
		assert.Equal(t, time.Second, b.NextDelay(50))
	})

	t.Run("OverflowCappedWhenMaxSet", func(t *testing.T) {
		b := NewExponentialBackoff(time.Second, WithMaxDelay(30*time.Second))

		// attempt 极大时 math.Pow 溢出为 +Inf，仍应返回上限
		assert.Equal(t, 30*time.Second, b.NextDelay(100000))
	})

	t.Run("OverflowSaturatesWhenUncapped", func(t *testing.T) {
		b := NewExponentialBackoff(time.Second)

		assert.Equal(t, time.Duration(math.MaxInt64), b.NextDelay(100000))
	})

	t.Run("NegativeBaseClampedToZero", func(t *testing.T) {
		b := NewExponentialBackoff(-time.Second)

		assert.Equal(t, time.Duration(0), b.NextDelay(1))
		assert.Equal(t, time.Duration(0), b.NextDelay(63))
	})

	t.Run("AttemptBelowOneClampedToOne", func(t *testing.T) {
		b := NewExponentialBackoff(100 * time.Millisecond)

		assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
		assert.Equal(t, 100*time.Millisecond, b.NextDelay(-1))
	})

	t.Run("MonotonicNonDecreasing", func(t *testing.T) {
		b := NewExponentialBackoff(time.Millisecond, WithMaxDelay(time.Minute))

		prev := time.Duration(0)
		for attempt := 1; attempt <= 100; attempt++ {
			d := b.NextDelay(attempt)
			assert.GreaterOrEqual(t, d, prev)
			prev = d
		}
	})
}

func TestFixedBackoff(t *testing.T) {
	b := NewFixedBackoff(50 * time.Millisecond)

	assert.Equal(t, 50*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 50*time.Millisecond, b.NextDelay(100))

	neg := NewFixedBackoff(-time.Second)
	assert.Equal(t, time.Duration(0), neg.NextDelay(1))
}

func TestNoBackoff(t *testing.T) {
	b := NewNoBackoff()

	assert.Equal(t, time.Duration(0), b.NextDelay(1))
	assert.Equal(t, time.Duration(0), b.NextDelay(100))
}

func TestJitterBackoff(t *testing.T) {
	t.Run("BoundsWithinWindow", func(t *testing.T) {
		// 固定种子扫描：抖动后延迟始终落在 [0.5, 1.5) * 名义延迟内
		rng := rand.New(rand.NewSource(42))
		inner := NewLinearBackoff(100 * time.Millisecond)
		b := NewJitterBackoff(inner, WithRandomSource(rng.Float64))

		for attempt := 1; attempt <= 1000; attempt++ {
			nominal := inner.NextDelay(attempt)
			d := b.NextDelay(attempt)
			ratio := float64(d) / float64(nominal)
			assert.GreaterOrEqual(t, ratio, 0.5, "attempt %d", attempt)
			assert.Less(t, ratio, 1.5, "attempt %d", attempt)
		}
	})

	t.Run("DeterministicWithFixedSource", func(t *testing.T) {
		inner := NewFixedBackoff(time.Second)

		// 随机源返回 0.5 时因子为 1.0，延迟不变
		b := NewJitterBackoff(inner, WithRandomSource(func() float64 { return 0.5 }))
		assert.Equal(t, time.Second, b.NextDelay(1))

		// 随机源返回 0 时取区间下界 0.5x
		low := NewJitterBackoff(inner, WithRandomSource(func() float64 { return 0 }))
		assert.Equal(t, 500*time.Millisecond, low.NextDelay(1))
	})

	t.Run("CustomFactor", func(t *testing.T) {
		inner := NewFixedBackoff(time.Second)
		b := NewJitterBackoff(inner,
			WithJitterFactor(0.1),
			WithRandomSource(func() float64 { return 0 }),
		)

		assert.Equal(t, 900*time.Millisecond, b.NextDelay(1))
	})

	t.Run("FactorClamped", func(t *testing.T) {
		inner := NewFixedBackoff(time.Second)

		// factor > 1 截断为 1；随机源取 0 时因子为 0
		b := NewJitterBackoff(inner,
			WithJitterFactor(5),
			WithRandomSource(func() float64 { return 0 }),
		)
		assert.Equal(t, time.Duration(0), b.NextDelay(1))

		// factor < 0 截断为 0：无抖动
		none := NewJitterBackoff(inner, WithJitterFactor(-1))
		assert.Equal(t, time.Second, none.NextDelay(1))
	})

	t.Run("ZeroDelayUntouched", func(t *testing.T) {
		b := NewJitterBackoff(NewNoBackoff())
		assert.Equal(t, time.Duration(0), b.NextDelay(1))
	})

	t.Run("NilInnerFallsBackToNoBackoff", func(t *testing.T) {
		b := NewJitterBackoff(nil)
		assert.Equal(t, time.Duration(0), b.NextDelay(1))
		assert.IsType(t, &NoBackoff{}, b.Inner())
	})

	t.Run("DefaultRandomSource", func(t *testing.T) {
		inner := NewFixedBackoff(time.Second)
		b := NewJitterBackoff(inner)

		for range 100 {
			d := b.NextDelay(1)
			assert.GreaterOrEqual(t, d, 500*time.Millisecond)
			assert.Less(t, d, 1500*time.Millisecond)
		}
	})
}

func TestRandomFloat64(t *testing.T) {
	for range 1000 {
		v := randomFloat64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
