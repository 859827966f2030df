package dto

import (
	"time"

	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 响应中的时间格式
const (
	DateLayout     = time.DateOnly
	DateTimeLayout = "2006-01-02 15:04:05"
)

// PageQuery 分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// ParseDate 解析YYYY-MM-DD,失败时返回带字段名的校验错误
func ParseDate(field, value string) (time.Time, error) {
	t, err := clock.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewValidation([]apperrors.Violation{{
			Field:   field,
			Rule:    "date",
			Message: "日期格式应为YYYY-MM-DD",
		}}).WithCause(err)
	}
	return t, nil
}

// ParseOptionalDate 空字符串返回零值
func ParseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return ParseDate(field, value)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}
