package librarian

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrLibrarianNotFound = apperrors.New(apperrors.ErrCodeLibrarianNotFound, "馆员不存在")
	ErrEmailDuplicate    = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword      = apperrors.New(apperrors.ErrCodeWeakPassword, "密码强度不足(需8-20位,包含字母和数字)")
	ErrInvalidEmail      = apperrors.New(apperrors.ErrCodeInvalidEmail, "邮箱格式不正确")
	ErrInvalidFullName   = apperrors.New(apperrors.ErrCodeInvalidName, "姓名长度应为2-100个字符")
)
