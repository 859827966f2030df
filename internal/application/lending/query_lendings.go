package lending

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/metrics"
)

// QueryLendingsUseCase 借阅查询用例(只读,不开启事务)
type QueryLendingsUseCase struct {
	lendings lending.Service
}

// NewQueryLendingsUseCase 创建查询用例
func NewQueryLendingsUseCase(lendings lending.Service) *QueryLendingsUseCase {
	return &QueryLendingsUseCase{lendings: lendings}
}

// Get 查询单条借阅
func (uc *QueryLendingsUseCase) Get(ctx context.Context, id uint) (*lending.Lending, error) {
	return uc.lendings.GetByID(ctx, id)
}

// List 分页查询全部借阅
func (uc *QueryLendingsUseCase) List(ctx context.Context, params lending.ListParams) ([]*lending.Lending, int64, error) {
	return uc.lendings.List(ctx, params)
}

// ListOpen 未归还借阅
func (uc *QueryLendingsUseCase) ListOpen(ctx context.Context) ([]*lending.Lending, error) {
	return uc.lendings.ListOpen(ctx)
}

// ListOverdue 截至asOf逾期的借阅(asOf为零值时为今天),并更新逾期数指标
func (uc *QueryLendingsUseCase) ListOverdue(ctx context.Context, asOf time.Time) ([]*lending.Lending, error) {
	list, err := uc.lendings.ListOverdue(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if metrics.OverdueLendings != nil {
		metrics.SetGauge(metrics.OverdueLendings, float64(len(list)))
	}
	return list, nil
}

// ListByReader 读者的借阅历史
func (uc *QueryLendingsUseCase) ListByReader(ctx context.Context, readerID uint) ([]*lending.Lending, error) {
	return uc.lendings.ListByReader(ctx, readerID)
}

// ListIssuedBetween 借出日期在[from, to]之间的借阅
func (uc *QueryLendingsUseCase) ListIssuedBetween(ctx context.Context, from, to time.Time) ([]*lending.Lending, error) {
	return uc.lendings.ListIssuedBetween(ctx, from, to)
}
