package dto

import (
	appreader "github.com/xiebiao/library/internal/application/reader"
	"github.com/xiebiao/library/internal/domain/reader"
)

// ReaderRequest 登记/更新读者请求
type ReaderRequest struct {
	ReadersTicket string `json:"readers_ticket" binding:"required" example:"T-001"`
	LastName      string `json:"last_name" binding:"required" example:"Иванов"`
	FirstName     string `json:"first_name" binding:"required" example:"Иван"`
	MiddleName    string `json:"middle_name" example:"Петрович"`
	DateOfBirth   string `json:"date_of_birth" binding:"required" example:"1990-05-20"`
	Email         string `json:"email" example:"ivanov@example.com"`
	Phone         string `json:"phone" binding:"required" example:"9161234567"`
}

// ToApp 转换为应用层输入,出生日期格式错误时返回校验错误
func (r ReaderRequest) ToApp() (appreader.ReaderRequest, error) {
	dob, err := ParseDate("date_of_birth", r.DateOfBirth)
	if err != nil {
		return appreader.ReaderRequest{}, err
	}
	return appreader.ReaderRequest{
		ReadersTicket: r.ReadersTicket,
		LastName:      r.LastName,
		FirstName:     r.FirstName,
		MiddleName:    r.MiddleName,
		DateOfBirth:   dob,
		Email:         r.Email,
		Phone:         r.Phone,
	}, nil
}

// ReaderResponse 读者响应
type ReaderResponse struct {
	ID            uint   `json:"id" example:"1"`
	ReadersTicket string `json:"readers_ticket" example:"T-001"`
	LastName      string `json:"last_name" example:"Иванов"`
	FirstName     string `json:"first_name" example:"Иван"`
	MiddleName    string `json:"middle_name,omitempty" example:"Петрович"`
	FullName      string `json:"full_name" example:"Иванов Иван Петрович"`
	DateOfBirth   string `json:"date_of_birth" example:"1990-05-20"`
	Email         string `json:"email,omitempty" example:"ivanov@example.com"`
	Phone         string `json:"phone" example:"9161234567"`
	CreatedAt     string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt     string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// NewReaderResponse 领域实体 → 响应
func NewReaderResponse(r *reader.Reader) *ReaderResponse {
	return &ReaderResponse{
		ID:            r.ID,
		ReadersTicket: r.ReadersTicket,
		LastName:      r.LastName,
		FirstName:     r.FirstName,
		MiddleName:    r.MiddleName,
		FullName:      r.FullName(),
		DateOfBirth:   r.DateOfBirth.Format(DateLayout),
		Email:         r.Email,
		Phone:         r.Phone,
		CreatedAt:     formatDateTime(r.CreatedAt),
		UpdatedAt:     formatDateTime(r.UpdatedAt),
	}
}

// NewReaderList 批量转换
func NewReaderList(readers []*reader.Reader) []*ReaderResponse {
	out := make([]*ReaderResponse, 0, len(readers))
	for _, r := range readers {
		out = append(out, NewReaderResponse(r))
	}
	return out
}

// ListReadersRequest 读者列表/搜索请求
type ListReadersRequest struct {
	PageQuery
	Field string `form:"field" binding:"omitempty,oneof=last_name ticket" example:"last_name"`
	Query string `form:"q" binding:"omitempty,max=50" example:"Иванов"`
}

// ToParams 转换为查询参数
func (r ListReadersRequest) ToParams() reader.ListParams {
	return reader.ListParams{
		Page:     r.Page,
		PageSize: r.PageSize,
		Field:    reader.SearchField(r.Field),
		Query:    r.Query,
	}
}
