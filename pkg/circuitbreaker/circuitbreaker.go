// Package circuitbreaker 熔断器
//
// 状态转换:
//
//	CLOSED    --ReadyToTrip为true-->   OPEN
//	OPEN      --Timeout到期-->          HALF_OPEN
//	HALF_OPEN --探测成功-->             CLOSED
//	HALF_OPEN --探测失败-->             OPEN
//
// OPEN状态下Execute直接返回ErrOpenState,不调用下游。
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/library/pkg/clock"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpenState 熔断器打开时的快速失败
var ErrOpenState = errors.New("circuit breaker is open")

// Counts 当前统计窗口内的计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态允许的探测请求数,0视为1
	MaxRequests uint32
	// Interval CLOSED状态下计数重置周期,0表示不重置
	Interval time.Duration
	// Timeout OPEN状态持续时间
	Timeout time.Duration
	// ReadyToTrip 失败后调用,返回true时打开熔断器
	// 为空时连续失败5次打开
	ReadyToTrip func(counts Counts) bool
	// OnStateChange 状态变化回调(持有锁时调用,不要在回调里访问熔断器)
	OnStateChange func(name string, from, to State)
	// Clock 为空时使用系统时钟
	Clock clock.Clock
}

// ConsecutiveFailures 连续失败n次打开
func ConsecutiveFailures(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

// CircuitBreaker 熔断器,并发安全
type CircuitBreaker struct {
	name   string
	cfg    Config
	clock  clock.Clock
	mu     sync.Mutex
	state  State
	gen    uint64 // 每次状态切换递增,丢弃旧状态下发出的请求结果
	counts Counts
	expiry time.Time
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = ConsecutiveFailures(5)
	}
	c := cfg.Clock
	if c == nil {
		c = clock.System()
	}

	cb := &CircuitBreaker{name: name, cfg: cfg, clock: c}
	cb.resetWindow(c.Now())
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute 在熔断器保护下调用fn
// OPEN或半开探测名额已满时返回ErrOpenState
func (cb *CircuitBreaker) Execute(fn func() error) error {
	gen, err := cb.before()
	if err != nil {
		return err
	}
	err = fn()
	cb.after(gen, err == nil)
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.current(cb.clock.Now())
	return state
}

// Counts 当前计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, gen := cb.current(cb.clock.Now())
	switch {
	case state == StateOpen:
		return gen, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.cfg.MaxRequests:
		return gen, ErrOpenState
	}
	cb.counts.Requests++
	return gen, nil
}

func (cb *CircuitBreaker) after(before uint64, ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.clock.Now()
	state, gen := cb.current(now)
	if gen != before {
		return
	}

	if ok {
		cb.counts.success()
		if state == StateHalfOpen {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.cfg.ReadyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

func (cb *CircuitBreaker) current(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && !now.Before(cb.expiry) {
			cb.gen++
			cb.resetWindow(now)
		}
	case StateOpen:
		if !now.Before(cb.expiry) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.gen
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}
	prev := cb.state
	cb.state = state
	cb.gen++

	switch state {
	case StateClosed:
		cb.resetWindow(now)
	case StateOpen:
		cb.counts = Counts{}
		cb.expiry = now.Add(cb.cfg.Timeout)
	case StateHalfOpen:
		cb.counts = Counts{}
		cb.expiry = time.Time{}
	}

	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) resetWindow(now time.Time) {
	cb.counts = Counts{}
	if cb.cfg.Interval > 0 {
		cb.expiry = now.Add(cb.cfg.Interval)
	} else {
		cb.expiry = time.Time{}
	}
}
