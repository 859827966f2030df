package dto

import (
	"time"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/lending"
)

// IssueRequest 借出请求
type IssueRequest struct {
	ReaderID uint `json:"reader_id" binding:"required" example:"1"`
	BookID   uint `json:"book_id" binding:"required" example:"1"`
}

// UpdateLendingRequest 更正借阅请求
// date_of_issue省略时保留原值;return_date为null表示未归还
type UpdateLendingRequest struct {
	ReaderID    uint    `json:"reader_id" binding:"required" example:"1"`
	BookID      uint    `json:"book_id" binding:"required" example:"1"`
	DateOfIssue string  `json:"date_of_issue" example:"2024-03-01"`
	ReturnDate  *string `json:"return_date" example:"2024-03-10"`
}

// ToApp 转换为应用层输入
func (r UpdateLendingRequest) ToApp() (applending.UpdateLendingRequest, error) {
	issue, err := ParseOptionalDate("date_of_issue", r.DateOfIssue)
	if err != nil {
		return applending.UpdateLendingRequest{}, err
	}
	req := applending.UpdateLendingRequest{
		ReaderID:    r.ReaderID,
		BookID:      r.BookID,
		DateOfIssue: issue,
	}
	if r.ReturnDate != nil && *r.ReturnDate != "" {
		ret, err := ParseDate("return_date", *r.ReturnDate)
		if err != nil {
			return applending.UpdateLendingRequest{}, err
		}
		req.ReturnDate = &ret
	}
	return req, nil
}

// ListLendingsRequest 借阅列表请求
// 同时给出from和to时返回借出日期在区间内的记录(不分页)
type ListLendingsRequest struct {
	PageQuery
	From string `form:"from" example:"2024-03-01"`
	To   string `form:"to" example:"2024-03-31"`
}

// OverdueRequest 逾期查询请求,as_of缺省为今天
type OverdueRequest struct {
	AsOf string `form:"as_of" example:"2024-03-20"`
}

// ReaderBrief 借阅中的读者快照
type ReaderBrief struct {
	ID            uint   `json:"id" example:"1"`
	ReadersTicket string `json:"readers_ticket" example:"T-001"`
	FullName      string `json:"full_name" example:"Иванов Иван Петрович"`
}

// BookBrief 借阅中的图书快照
type BookBrief struct {
	ID     uint   `json:"id" example:"1"`
	Name   string `json:"name" example:"Война и мир"`
	Author string `json:"author" example:"Лев Толстой"`
}

// LendingResponse 借阅响应
type LendingResponse struct {
	ID          uint         `json:"id" example:"1"`
	ReaderID    uint         `json:"reader_id" example:"1"`
	BookID      uint         `json:"book_id" example:"1"`
	DateOfIssue string       `json:"date_of_issue" example:"2024-03-15"`
	DateOfDue   string       `json:"date_of_due" example:"2024-03-29"`
	ReturnDate  *string      `json:"return_date" example:"2024-03-20"`
	Status      string       `json:"status" example:"open"`
	Overdue     bool         `json:"overdue" example:"false"`
	Reader      *ReaderBrief `json:"reader,omitempty"`
	Book        *BookBrief   `json:"book,omitempty"`
}

// NewLendingResponse 领域实体 → 响应,today用于计算是否逾期
func NewLendingResponse(l *lending.Lending, today time.Time) *LendingResponse {
	resp := &LendingResponse{
		ID:          l.ID,
		ReaderID:    l.ReaderID,
		BookID:      l.BookID,
		DateOfIssue: l.DateOfIssue.Format(DateLayout),
		DateOfDue:   l.DateOfDue.Format(DateLayout),
		Status:      l.Status().String(),
		Overdue:     l.IsOverdue(today),
	}
	if l.ReturnDate != nil {
		s := l.ReturnDate.Format(DateLayout)
		resp.ReturnDate = &s
	}
	if l.Reader != nil {
		resp.Reader = &ReaderBrief{ID: l.Reader.ID, ReadersTicket: l.Reader.ReadersTicket, FullName: l.Reader.FullName()}
	}
	if l.Book != nil {
		resp.Book = &BookBrief{ID: l.Book.ID, Name: l.Book.Name, Author: l.Book.Author}
	}
	return resp
}

// NewLendingList 批量转换
func NewLendingList(list []*lending.Lending, today time.Time) []*LendingResponse {
	out := make([]*LendingResponse, 0, len(list))
	for _, l := range list {
		out = append(out, NewLendingResponse(l, today))
	}
	return out
}
