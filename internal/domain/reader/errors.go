package reader

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 读者领域错误定义
var (
	ErrReaderNotFound      = apperrors.New(apperrors.ErrCodeReaderNotFound, "读者不存在")
	ErrTicketDuplicate     = apperrors.New(apperrors.ErrCodeTicketDuplicate, "读者证号已存在")
	ErrReaderDuplicate     = apperrors.New(apperrors.ErrCodeReaderDuplicate, "相同姓名和出生日期的读者已存在")
	ErrReaderHasActiveLoan = apperrors.New(apperrors.ErrCodeReaderHasLoan, "读者尚有未归还的借阅,不能删除")
	ErrInvalidSearchField  = apperrors.New(apperrors.ErrCodeSearchField, "不支持的搜索字段(last_name/ticket)")
)
