package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// QueryBooksUseCase 图书查询用例
type QueryBooksUseCase struct {
	books book.Service
}

// NewQueryBooksUseCase 创建查询用例
func NewQueryBooksUseCase(books book.Service) *QueryBooksUseCase {
	return &QueryBooksUseCase{books: books}
}

// Get 根据ID查询
func (uc *QueryBooksUseCase) Get(ctx context.Context, id uint) (*book.Book, error) {
	return uc.books.GetBookByID(ctx, id)
}

// ListBooksResult 分页结果
type ListBooksResult struct {
	Books    []*book.Book
	Total    int64
	Page     int
	PageSize int
}

// List 分页查询/搜索,field为空时返回全部
func (uc *QueryBooksUseCase) List(ctx context.Context, params book.ListParams) (*ListBooksResult, error) {
	params.Normalize()
	books, total, err := uc.books.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}
	return &ListBooksResult{Books: books, Total: total, Page: params.Page, PageSize: params.PageSize}, nil
}
