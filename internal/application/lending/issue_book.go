package lending

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/application"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// IssueBookUseCase 借出图书用例
// 1. 锁图书、查未归还借阅、创建记录在同一个事务内完成
// 2. 提交后发布lending.issued事件
type IssueBookUseCase struct {
	lendings  lending.Service
	txManager application.TxManager
	events    EventPublisher
	clock     clock.Clock
}

// NewIssueBookUseCase 创建借出用例
func NewIssueBookUseCase(
	lendings lending.Service,
	txManager application.TxManager,
	events EventPublisher,
	c clock.Clock,
) *IssueBookUseCase {
	return &IssueBookUseCase{lendings: lendings, txManager: txManager, events: events, clock: c}
}

// IssueBookRequest 借出请求
type IssueBookRequest struct {
	ReaderID uint
	BookID   uint
}

// Execute 执行借出
func (uc *IssueBookUseCase) Execute(ctx context.Context, req IssueBookRequest) (l *lending.Lending, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "IssueBook")
	span.SetAttributes(
		attribute.Int64("reader_id", int64(req.ReaderID)),
		attribute.Int64("book_id", int64(req.BookID)),
	)
	defer func() {
		tracing.End(span, err)
		metrics.ObserveLendingOperation("issue", start, err)
	}()

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		l, err = uc.lendings.Issue(ctx, req.ReaderID, req.BookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.events, NewEvent(EventIssued, l, uc.clock.Now()))
	return l, nil
}
