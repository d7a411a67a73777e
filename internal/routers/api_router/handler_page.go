package api_router

import (
	"net/http"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

const (
	// EventPath 事件接口路径
	EventPath = "/cba/event"
	// WSPath websocket 接口路径
	WSPath = "/cba/ws"
	// StaticPrefix 前端静态资源前缀
	StaticPrefix = "/static"
)

// PageHandler 整页渲染处理器
type PageHandler struct {
	*Handler
}

// NewPageHandler 创建整页渲染处理器实例
func NewPageHandler(a *app.App) *PageHandler {
	return &PageHandler{Handler: NewHandler(a)}
}

// Index renders the component tree of the session as a complete document.
// A session seen for the first time gets its tree built here.
// Index 将会话的组件树渲染为完整页面，首次访问的会话在此构建组件树。
func (h *PageHandler) Index(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		h.respondError(c, "PageHandler.Index", code.ErrorSessionInvalid)
		return
	}

	html, err := h.App.RenderPage(c.Request.Context(), sess, cba.Page{
		Title:        middleware.GetAppName(c, app.Name),
		Lang:         pkgapp.GetLang(c),
		Endpoint:     EventPath,
		WSEndpoint:   WSPath,
		StaticPrefix: StaticPrefix,
	})
	if err != nil {
		h.respondError(c, "PageHandler.Index", err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
