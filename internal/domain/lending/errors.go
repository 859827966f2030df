package lending

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLendingNotFound 借阅记录不存在
	ErrLendingNotFound = apperrors.New(apperrors.ErrCodeLendingNotFound, "借阅记录不存在")

	// ErrBookAlreadyLent 图书已借出且未归还
	ErrBookAlreadyLent = apperrors.New(apperrors.ErrCodeBookAlreadyLent, "图书已借出,尚未归还")

	// ErrAlreadyReturned 借阅已归还,不能重复归还
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeAlreadyReturned, "图书已归还")

	// ErrLendingDuplicate 同一读者同一天借同一本书的记录已存在
	ErrLendingDuplicate = apperrors.New(apperrors.ErrCodeLendingDuplicate, "该读者当天已有此书的借阅记录")

	// ErrActiveLoanDeletion 未归还的借阅不能删除
	ErrActiveLoanDeletion = apperrors.New(apperrors.ErrCodeActiveLoanDeletion, "借阅尚未归还,不能删除")

	// ErrInvalidDates 借阅日期顺序非法
	ErrInvalidDates = apperrors.New(apperrors.ErrCodeInvalidDates, "借阅日期非法")

	// ErrInvalidPeriod 查询区间起始日期晚于结束日期
	ErrInvalidPeriod = apperrors.New(apperrors.ErrCodeInvalidPeriod, "起始日期不能晚于结束日期")
)
