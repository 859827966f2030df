package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
	pkgvalidator "github.com/xiebiao/library/pkg/validator"
)

var errInvalidID = apperrors.New(apperrors.ErrCodeInvalidParams, "ID必须为正整数")

// pathID 解析路径参数中的ID
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID.WithDetail(name, c.Param(name))
	}
	return uint(id), nil
}

// bindError 把Gin绑定错误转换为AppError
// binding标签校验失败返回违规列表,JSON格式错误返回ErrBindError
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return apperrors.NewValidation(pkgvalidator.Violations(ve))
	}
	return apperrors.ErrBindError.WithCause(err)
}
