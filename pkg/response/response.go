package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// Response 统一响应结构
// 1. Code是业务错误码(非HTTP状态码),成功时为0
// 2. Message是用户友好的提示信息
// 3. Data是业务数据,失败时为空;Details和Violations只在失败时出现
type Response struct {
	Code       int                   `json:"code"`
	Message    string                `json:"message"`
	Data       interface{}           `json:"data,omitempty"`
	Details    map[string]any        `json:"details,omitempty"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应(201)
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
// HTTP状态码由错误类别决定,内部错误只记录日志,不返回原因
//
//	err := lendingService.Issue(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := StatusOf(appErr.Kind)

	log := logger.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("请求处理失败", zap.Int("code", appErr.Code), zap.Error(err))
	} else {
		log.Debug("请求被拒绝", zap.Int("code", appErr.Code), zap.String("kind", string(appErr.Kind)), zap.Error(err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Response{
		Code:       appErr.Code,
		Message:    appErr.Message,
		Details:    appErr.Details,
		Violations: appErr.Violations,
	})
}

// StatusOf 错误类别对应的HTTP状态码
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInvariant:
		return http.StatusUnprocessableEntity
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	PageSize   int         `json:"page_size"`   // 每页大小
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
