// Package websocket_router 提供 WebSocket 路由处理器
package websocket_router

import (
	"context"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/internal/session"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/errors"
	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// WSHandler WebSocket 基础 Handler 结构体，封装 App Container
type WSHandler struct {
	App *app.App
}

// NewWSHandler 创建 WebSocket 基础 Handler 实例
func NewWSHandler(a *app.App) *WSHandler {
	return &WSHandler{App: a}
}

// Event dispatches one Event|json frame and answers with Patch|json or Error|json.
// The upgrade request is gone by now, so the handler runs on its own context.
// Event 分发一个 Event|json 帧，以 Patch|json 或 Error|json 应答。升级请求已结束，处理器使用独立的上下文。
func (h *WSHandler) Event(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	done := h.App.TrackOperation()
	defer done()

	if h.App.IsShuttingDown() {
		h.respondError(c, code.ErrorServerInternal.WithDetails("server is shutting down"), nil, "WSHandler.Event")
		return
	}

	sess, ok := h.session(c)
	if !ok {
		h.respondError(c, code.ErrorSessionInvalid, nil, "WSHandler.Event")
		return
	}

	var m dto.EventRequest
	if err := sonic.Unmarshal(msg.Data, &m); err != nil || m.ID == "" || m.Event == "" {
		h.respondError(c, code.ErrorInvalidParams, err, "WSHandler.Event")
		return
	}

	ctx := context.Background()
	if timeout := h.App.Config().GetContextTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	patch, err := h.App.HandleEvent(ctx, sess, app.EventRequest{
		Event: cba.Event{
			ComponentID: m.ID,
			Name:        m.Event,
			Value:       m.Value,
			Values:      m.Values,
		},
		ClientIP: pkgapp.GetRequestIP(c.Ctx),
		Lang:     pkgapp.GetLang(c.Ctx),
	})
	if err != nil {
		h.respondError(c, err, err, "WSHandler.Event")
		return
	}

	if err := c.ToResponse(dto.WSPatch, patch); err != nil {
		h.logWarn(c, "WSHandler.Event", zap.Error(err))
	}
}

// session returns the session bound at upgrade time while it is still alive
// session 返回升级时绑定且仍然有效的会话
func (h *WSHandler) session(c *pkgapp.WebsocketClient) (*session.Session, bool) {
	bound, ok := middleware.GetSession(c.Ctx)
	if !ok {
		return nil, false
	}
	return h.App.Sessions.Get(bound.ID)
}

func (h *WSHandler) traceID(c *pkgapp.WebsocketClient) string {
	if c == nil || c.Ctx == nil {
		return ""
	}
	return middleware.GetTraceIDFromGin(c.Ctx)
}

// logWarn 记录警告日志，包含 Trace ID
func (h *WSHandler) logWarn(c *pkgapp.WebsocketClient, method string, fields ...zap.Field) {
	allFields := append([]zap.Field{zap.String(logger.FieldTraceID, h.traceID(c))}, fields...)
	h.App.Logger().Warn(method, allFields...)
}

// respondError 统一错误响应方法
// 服务端错误记录日志，并发送包含 Details 的错误响应给客户端
func (h *WSHandler) respondError(c *pkgapp.WebsocketClient, codeErr error, err error, method string) {
	appErr := errors.FromError(codeErr, code.ErrorServerInternal).WithTraceID(h.traceID(c))
	if appErr.StatusCode() >= 500 {
		h.App.Logger().Error(method, zap.Error(err), zap.Int("code", appErr.Code), zap.String(logger.FieldTraceID, appErr.TraceID))
	}
	if err := c.ToResponse(dto.WSError, appErr); err != nil {
		h.logWarn(c, method, zap.Error(err))
	}
}
