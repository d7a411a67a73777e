package errors

import (
	"errors"
	"time"

	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 恒为 false
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: c.StatusCode(),
	}
}

// StatusCode 返回对应的 HTTP 状态码
func (e *AppError) StatusCode() int {
	if e.httpStatus == 0 {
		return code.ErrorServerInternal.StatusCode()
	}
	return e.httpStatus
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// Wrap annotates err with a message, nil stays nil
// Wrap 为错误附加信息
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf 为错误附加格式化信息
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// As 转发到标准库 errors.As
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is 转发到标准库 errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// FromError converts any error into an AppError, using fallback for unknown errors
// FromError 将任意错误转换为 AppError，未知错误使用 fallback
func FromError(err error, fallback *code.Code) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return NewAppError(codeErr, err)
	}
	if fallback == nil {
		fallback = code.ErrorServerInternal
	}
	return NewAppError(fallback, err)
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID，将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	appErr := FromError(err, code.ErrorServerInternal)
	appErr.TraceID = middleware.GetTraceIDFromGin(c)
	status := appErr.StatusCode()
	c.Set("status_code", status)
	c.JSON(status, appErr)
}
