// Package dashboard 首页统计
package dashboard

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/reader"
)

// Summary 首页统计数据
type Summary struct {
	Readers        int64 `json:"readers"`
	Books          int64 `json:"books"`
	ActiveLendings int64 `json:"active_lendings"`
	Overdue        int64 `json:"overdue"`
}

// SummaryUseCase 统计读者数、图书数、未归还和逾期借阅数
type SummaryUseCase struct {
	books    book.Service
	readers  reader.Service
	lendings lending.Service
}

// NewSummaryUseCase 创建统计用例
func NewSummaryUseCase(books book.Service, readers reader.Service, lendings lending.Service) *SummaryUseCase {
	return &SummaryUseCase{books: books, readers: readers, lendings: lendings}
}

// Execute 汇总统计
func (uc *SummaryUseCase) Execute(ctx context.Context) (*Summary, error) {
	_, books, err := uc.books.ListBooks(ctx, book.ListParams{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	_, readers, err := uc.readers.ListReaders(ctx, reader.ListParams{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	open, err := uc.lendings.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	overdue, err := uc.lendings.ListOverdue(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return &Summary{
		Readers:        readers,
		Books:          books,
		ActiveLendings: int64(len(open)),
		Overdue:        int64(len(overdue)),
	}, nil
}
