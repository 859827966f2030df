package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrBookDuplicate 书名、作者、出版社相同的图书已存在
	ErrBookDuplicate = apperrors.New(apperrors.ErrCodeBookDuplicate, "相同书名、作者和出版社的图书已存在")

	// ErrBookHasActiveLoan 图书尚未归还,不能删除
	ErrBookHasActiveLoan = apperrors.New(apperrors.ErrCodeBookHasActiveLoan, "图书尚有未归还的借阅,不能删除")

	// ErrInvalidSearchField 不支持的搜索字段
	ErrInvalidSearchField = apperrors.New(apperrors.ErrCodeSearchField, "不支持的搜索字段(name/author/genre)")
)
