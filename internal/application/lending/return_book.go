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

// ReturnBookUseCase 归还图书用例
type ReturnBookUseCase struct {
	lendings  lending.Service
	txManager application.TxManager
	events    EventPublisher
	clock     clock.Clock
}

// NewReturnBookUseCase 创建归还用例
func NewReturnBookUseCase(
	lendings lending.Service,
	txManager application.TxManager,
	events EventPublisher,
	c clock.Clock,
) *ReturnBookUseCase {
	return &ReturnBookUseCase{lendings: lendings, txManager: txManager, events: events, clock: c}
}

// Execute 执行归还,归还日期为今天
func (uc *ReturnBookUseCase) Execute(ctx context.Context, lendingID uint) (l *lending.Lending, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "ReturnBook")
	span.SetAttributes(attribute.Int64("lending_id", int64(lendingID)))
	defer func() {
		tracing.End(span, err)
		metrics.ObserveLendingOperation("return", start, err)
	}()

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		l, err = uc.lendings.Return(ctx, lendingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.events, NewEvent(EventReturned, l, uc.clock.Now()))
	return l, nil
}
