package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/pkg/clock"
)

var errDown = errors.New("broker unavailable")

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newBreaker(c clock.Clock, changes *[]string) *CircuitBreaker {
	return New("mq", Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: ConsecutiveFailures(3),
		Clock:       c,
		OnStateChange: func(name string, from, to State) {
			*changes = append(*changes, from.String()+"->"+to.String())
		},
	})
}

func fail() error    { return errDown }
func succeed() error { return nil }

func TestStateTransitions(t *testing.T) {
	c := &manualClock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	var changes []string
	cb := newBreaker(c, &changes)

	t.Run("成功请求保持关闭", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, cb.Execute(succeed))
		}
		assert.Equal(t, StateClosed, cb.State())
		assert.Equal(t, uint32(5), cb.Counts().TotalSuccesses)
	})

	t.Run("连续失败后打开", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Execute(fail), errDown)
		}
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("打开时不调用下游", func(t *testing.T) {
		called := false
		err := cb.Execute(func() error { called = true; return nil })
		assert.ErrorIs(t, err, ErrOpenState)
		assert.False(t, called)
	})

	t.Run("超时后半开并只放行一个探测", func(t *testing.T) {
		c.advance(30 * time.Second)
		assert.Equal(t, StateHalfOpen, cb.State())

		gen, err := cb.before()
		require.NoError(t, err)
		_, err = cb.before()
		assert.ErrorIs(t, err, ErrOpenState)
		cb.after(gen, true)
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("半开探测失败重新打开", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_ = cb.Execute(fail)
		}
		c.advance(31 * time.Second)
		assert.ErrorIs(t, cb.Execute(fail), errDown)
		assert.Equal(t, StateOpen, cb.State())
	})

	assert.Equal(t, []string{
		"closed->open",
		"open->half_open",
		"half_open->closed",
		"closed->open",
		"open->half_open",
		"half_open->open",
	}, changes)
}

func TestIntervalResetsCounts(t *testing.T) {
	c := &manualClock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	var changes []string
	cb := newBreaker(c, &changes)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	c.advance(time.Minute)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State(), "窗口过期后连续失败数重新计算")
	assert.Equal(t, uint32(1), cb.Counts().ConsecutiveFailures)
	assert.Empty(t, changes)
}

func TestDefaults(t *testing.T) {
	cb := New("default", Config{Timeout: time.Second})
	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, StateClosed, cb.State())
	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, "default", cb.Name())
}

func TestFailureRate(t *testing.T) {
	assert.Zero(t, Counts{}.FailureRate())
	assert.InDelta(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate(), 1e-9)
}
