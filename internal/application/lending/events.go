package lending

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/logger"
)

// 借阅事件的routing key
const (
	EventIssued   = "lending.issued"
	EventReturned = "lending.returned"
	EventUpdated  = "lending.updated"
	EventDeleted  = "lending.deleted"
)

// Event 借阅事件消息体
type Event struct {
	Type        string    `json:"type"`
	LendingID   uint      `json:"lending_id"`
	ReaderID    uint      `json:"reader_id,omitempty"`
	BookID      uint      `json:"book_id,omitempty"`
	DateOfIssue string    `json:"date_of_issue,omitempty"`
	DateOfDue   string    `json:"date_of_due,omitempty"`
	ReturnDate  string    `json:"return_date,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher 事件发布(由pkg/mq.Publisher实现)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// BreakerPublisher 熔断保护的事件发布
// 消息队列连续不可用时直接返回circuitbreaker.ErrOpenState,借阅操作不再等待发布超时
type BreakerPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerPublisher 用熔断器包装发布者
func NewBreakerPublisher(next EventPublisher, breaker *circuitbreaker.CircuitBreaker) *BreakerPublisher {
	return &BreakerPublisher{next: next, breaker: breaker}
}

// Publish 实现EventPublisher
func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(ctx, routingKey, message)
	})
}

// NewEvent 根据借阅记录构建事件
func NewEvent(eventType string, l *lending.Lending, at time.Time) Event {
	ev := Event{
		Type:        eventType,
		LendingID:   l.ID,
		ReaderID:    l.ReaderID,
		BookID:      l.BookID,
		DateOfIssue: l.DateOfIssue.Format(time.DateOnly),
		DateOfDue:   l.DateOfDue.Format(time.DateOnly),
		OccurredAt:  at.UTC(),
	}
	if l.ReturnDate != nil {
		ev.ReturnDate = l.ReturnDate.Format(time.DateOnly)
	}
	return ev
}

// publish 在事务提交后发布事件,失败只记录日志,不影响操作结果
func publish(ctx context.Context, p EventPublisher, ev Event) {
	if err := p.Publish(ctx, ev.Type, ev); err != nil {
		logger.Ctx(ctx).Warn("发布借阅事件失败",
			zap.String("type", ev.Type),
			zap.Uint("lending_id", ev.LendingID),
			zap.Error(err))
	}
}
