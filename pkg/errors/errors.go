package errors

import (
	"errors"
	"fmt"
)

// Kind 错误类别
// 调用方按类别决定如何呈现（HTTP状态码、CLI退出码），按Code区分具体原因
type Kind string

const (
	KindInternal     Kind = "internal"     // 系统错误
	KindUnauthorized Kind = "unauthorized" // 认证失败
	KindNotFound     Kind = "not_found"    // 实体ID无法解析
	KindConflict     Kind = "conflict"     // 唯一性或可借性冲突
	KindInvariant    Kind = "invariant"    // 结构性规则阻止操作（如删除未归还的借阅）
	KindValidation   Kind = "validation"   // 字段格式/范围错误
)

// Violation 单个字段校验失败项
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// AppError 自定义应用错误
// 1. Code用于客户端判断具体原因，Kind用于判断错误类别
// 2. Message是用户友好的提示信息
// 3. Details携带上下文（如冲突的图书ID），Violations携带字段校验结果
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code       int            `json:"code"`
	Kind       Kind           `json:"kind"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Violations []Violation    `json:"violations,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配，WithDetail派生出的副本仍与原始哨兵错误相等
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail 返回附加了上下文字段的副本，不修改哨兵错误本身
func (e *AppError) WithDetail(key string, value any) *AppError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// WithViolations 返回附加了字段违规项的副本
func (e *AppError) WithViolations(violations ...Violation) *AppError {
	cp := *e
	cp.Violations = append(append([]Violation(nil), e.Violations...), violations...)
	return &cp
}

// WithCause 返回包装了内部错误的副本
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的AppError，类别由错误码区间决定
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindOf(code),
		Message: message,
	}
}

// NewValidation 创建字段校验错误
func NewValidation(violations []Violation) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidParams,
		Kind:       KindValidation,
		Message:    "参数校验失败",
		Violations: violations,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Kind:    KindInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Kind:    KindInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 业务规则错误（00-49 冲突，50-99 结构性规则）
// - 401xx: 认证授权错误
// - 404xx: 资源不存在
// - 409xx: 参数错误
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound          = 40400 // 资源不存在(通用)
	ErrCodeLibrarianNotFound = 40401 // 馆员不存在
	ErrCodeBookNotFound      = 40402 // 图书不存在
	ErrCodeReaderNotFound    = 40403 // 读者不存在
	ErrCodeLendingNotFound   = 40404 // 借阅记录不存在

	// 冲突错误（40000-40049）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeBookAlreadyLent    = 40001 // 图书已借出
	ErrCodeAlreadyReturned    = 40002 // 借阅已归还
	ErrCodeEmailDuplicate     = 40003 // 邮箱已存在
	ErrCodeBookDuplicate      = 40004 // 图书已存在
	ErrCodeWeakPassword       = 40005 // 密码强度不足
	ErrCodeTicketDuplicate    = 40006 // 读者证号已存在
	ErrCodeReaderDuplicate    = 40007 // 读者已存在
	ErrCodeLendingDuplicate   = 40008 // 借阅记录重复
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)
	ErrCodeBookHasActiveLoan  = 40050 // 图书存在未归还借阅
	ErrCodeReaderHasLoan      = 40051 // 读者存在未归还借阅
	ErrCodeActiveLoanDeletion = 40052 // 借阅未归还不可删除

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
	ErrCodeInvalidDates  = 40902 // 日期顺序非法
	ErrCodeInvalidEmail  = 40903 // 邮箱格式错误
	ErrCodeInvalidName   = 40904 // 姓名长度错误
	ErrCodeSearchField   = 40905 // 不支持的搜索字段
	ErrCodeInvalidPeriod = 40906 // 查询区间非法
)

func kindOf(code int) Kind {
	switch {
	case code >= 40000 && code < 40050:
		return KindConflict
	case code >= 40050 && code < 40100:
		return KindInvariant
	case code >= 40100 && code < 40200:
		return KindUnauthorized
	case code >= 40400 && code < 40500:
		return KindNotFound
	case code >= 40900 && code < 41000:
		return KindValidation
	default:
		return KindInternal
	}
}

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// KindOf 返回错误类别，非AppError视为内部错误
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
