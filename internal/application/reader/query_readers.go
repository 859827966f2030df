package reader

import (
	"context"

	"github.com/xiebiao/library/internal/domain/reader"
)

// QueryReadersUseCase 读者查询用例
type QueryReadersUseCase struct {
	readers reader.Service
}

// NewQueryReadersUseCase 创建查询用例
func NewQueryReadersUseCase(readers reader.Service) *QueryReadersUseCase {
	return &QueryReadersUseCase{readers: readers}
}

// Get 根据ID查询
func (uc *QueryReadersUseCase) Get(ctx context.Context, id uint) (*reader.Reader, error) {
	return uc.readers.GetReaderByID(ctx, id)
}

// GetByTicket 根据读者证号查询
func (uc *QueryReadersUseCase) GetByTicket(ctx context.Context, ticket string) (*reader.Reader, error) {
	return uc.readers.GetReaderByTicket(ctx, ticket)
}

// ListReadersResult 分页结果
type ListReadersResult struct {
	Readers  []*reader.Reader
	Total    int64
	Page     int
	PageSize int
}

// List 分页查询/搜索
func (uc *QueryReadersUseCase) List(ctx context.Context, params reader.ListParams) (*ListReadersResult, error) {
	params.Normalize()
	readers, total, err := uc.readers.ListReaders(ctx, params)
	if err != nil {
		return nil, err
	}
	return &ListReadersResult{Readers: readers, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}
