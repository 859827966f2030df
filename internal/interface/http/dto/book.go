package dto

import (
	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
)

// BookRequest 登记/更新图书请求
// 格式规则(西里尔字母、出版年份)由应用层校验
type BookRequest struct {
	Name              string `json:"name" binding:"required" example:"Война и мир"`
	Author            string `json:"author" binding:"required" example:"Лев Толстой"`
	Genre             string `json:"genre" example:"Роман"`
	PublishingHouse   string `json:"publishing_house" binding:"required" example:"Эксмо"`
	YearOfPublication *int   `json:"year_of_publication" example:"1869"`
}

// ToApp 转换为应用层输入
func (r BookRequest) ToApp() appbook.BookRequest {
	return appbook.BookRequest{
		Name:              r.Name,
		Author:            r.Author,
		Genre:             r.Genre,
		PublishingHouse:   r.PublishingHouse,
		YearOfPublication: r.YearOfPublication,
	}
}

// BookResponse 图书响应
type BookResponse struct {
	ID                uint   `json:"id" example:"1"`
	Name              string `json:"name" example:"Война и мир"`
	Author            string `json:"author" example:"Лев Толстой"`
	Genre             string `json:"genre" example:"Роман"`
	PublishingHouse   string `json:"publishing_house" example:"Эксмо"`
	YearOfPublication *int   `json:"year_of_publication" example:"1869"`
	CreatedAt         string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt         string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// NewBookResponse 领域实体 → 响应
func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:                b.ID,
		Name:              b.Name,
		Author:            b.Author,
		Genre:             b.Genre,
		PublishingHouse:   b.PublishingHouse,
		YearOfPublication: b.YearOfPublication,
		CreatedAt:         formatDateTime(b.CreatedAt),
		UpdatedAt:         formatDateTime(b.UpdatedAt),
	}
}

// NewBookList 批量转换
func NewBookList(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

// ListBooksRequest 图书列表/搜索请求
// field为name、author时按包含匹配(忽略大小写),genre为精确匹配
type ListBooksRequest struct {
	PageQuery
	Field string `form:"field" binding:"omitempty,oneof=name author genre" example:"author"`
	Query string `form:"q" binding:"omitempty,max=225" example:"Толстой"`
}

// ToParams 转换为查询参数
func (r ListBooksRequest) ToParams() book.ListParams {
	return book.ListParams{
		Page:     r.Page,
		PageSize: r.PageSize,
		Field:    book.SearchField(r.Field),
		Query:    r.Query,
	}
}
