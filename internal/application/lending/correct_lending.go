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

// UpdateLendingUseCase 管理员更正借阅记录
type UpdateLendingUseCase struct {
	lendings  lending.Service
	txManager application.TxManager
	events    EventPublisher
	clock     clock.Clock
}

// NewUpdateLendingUseCase 创建更正用例
func NewUpdateLendingUseCase(
	lendings lending.Service,
	txManager application.TxManager,
	events EventPublisher,
	c clock.Clock,
) *UpdateLendingUseCase {
	return &UpdateLendingUseCase{lendings: lendings, txManager: txManager, events: events, clock: c}
}

// UpdateLendingRequest 更正请求
// DateOfIssue为零值时保留原借出日期;ReturnDate为nil表示未归还(可重新打开已归还记录)
type UpdateLendingRequest struct {
	ReaderID    uint
	BookID      uint
	DateOfIssue time.Time
	ReturnDate  *time.Time
}

// Execute 执行更正
func (uc *UpdateLendingUseCase) Execute(ctx context.Context, id uint, req UpdateLendingRequest) (l *lending.Lending, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "UpdateLending")
	span.SetAttributes(attribute.Int64("lending_id", int64(id)))
	defer func() {
		tracing.End(span, err)
		metrics.ObserveLendingOperation("update", start, err)
	}()

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		l, err = uc.lendings.Update(ctx, id, lending.UpdateCommand{
			ReaderID:    req.ReaderID,
			BookID:      req.BookID,
			DateOfIssue: req.DateOfIssue,
			ReturnDate:  req.ReturnDate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, uc.events, NewEvent(EventUpdated, l, uc.clock.Now()))
	return l, nil
}

// DeleteLendingUseCase 删除已归还的借阅记录
type DeleteLendingUseCase struct {
	lendings  lending.Service
	txManager application.TxManager
	events    EventPublisher
	clock     clock.Clock
}

// NewDeleteLendingUseCase 创建删除用例
func NewDeleteLendingUseCase(
	lendings lending.Service,
	txManager application.TxManager,
	events EventPublisher,
	c clock.Clock,
) *DeleteLendingUseCase {
	return &DeleteLendingUseCase{lendings: lendings, txManager: txManager, events: events, clock: c}
}

// Execute 执行删除
func (uc *DeleteLendingUseCase) Execute(ctx context.Context, id uint) (err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, application.TracerName, "DeleteLending")
	span.SetAttributes(attribute.Int64("lending_id", int64(id)))
	defer func() {
		tracing.End(span, err)
		metrics.ObserveLendingOperation("delete", start, err)
	}()

	if err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		return uc.lendings.Delete(ctx, id)
	}); err != nil {
		return err
	}

	publish(ctx, uc.events, Event{Type: EventDeleted, LendingID: id, OccurredAt: uc.clock.Now().UTC()})
	return nil
}
