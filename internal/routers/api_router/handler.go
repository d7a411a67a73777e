// Package api_router 提供 HTTP 路由处理器
package api_router

import (
	"net/http"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/errors"
	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 HTTP Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(c *gin.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
		zap.String("path", c.Request.URL.Path),
	)
}

// logDebug 记录调试日志，包含 Trace ID
func (h *Handler) logDebug(c *gin.Context, method string, fields ...zap.Field) {
	allFields := append([]zap.Field{zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c))}, fields...)
	h.App.Logger().Debug(method, allFields...)
}

// respondError 统一错误响应方法
// Server side failures are logged; user facing codes are only answered.
// 服务端错误记录日志，面向用户的错误码只做响应。
func (h *Handler) respondError(c *gin.Context, method string, err error) {
	appErr := errors.FromError(err, code.ErrorServerInternal)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logError(c, method, err)
	} else {
		h.logDebug(c, method, zap.Int("code", appErr.Code), zap.Error(err))
	}
	errors.ErrorResponse(c, err)
}
