package api_router

import (
	"mime/multipart"
	"strings"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

// EventHandler 事件分发处理器
type EventHandler struct {
	*Handler
}

// NewEventHandler 创建事件分发处理器实例
func NewEventHandler(a *app.App) *EventHandler {
	return &EventHandler{Handler: NewHandler(a)}
}

// Dispatch accepts one browser event as a form or multipart post and answers
// with the patch for the page.
// Dispatch 以表单或 multipart 接收一个浏览器事件，返回页面补丁。
func (h *EventHandler) Dispatch(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		h.respondError(c, "EventHandler.Dispatch", code.ErrorSessionInvalid)
		return
	}

	params := &dto.EventRequest{}
	if err := c.ShouldBind(params); err != nil {
		h.respondError(c, "EventHandler.Dispatch", code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	event := cba.Event{
		ComponentID: params.ID,
		Name:        params.Event,
		Value:       params.Value,
		Values:      formValues(c),
		Files:       formFiles(c),
	}

	patch, err := h.App.HandleEvent(c.Request.Context(), sess, app.EventRequest{
		Event:    event,
		ClientIP: pkgapp.GetRequestIP(c),
		Lang:     pkgapp.GetLang(c),
	})
	if err != nil {
		h.respondError(c, "EventHandler.Dispatch", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(patch))
}

// formValues 收集 v.<id> 字段
func formValues(c *gin.Context) map[string][]string {
	values := make(map[string][]string)
	for key, list := range c.Request.PostForm {
		if id := strings.TrimPrefix(key, dto.ValuePrefix); id != key && id != "" {
			values[id] = list
		}
	}
	return values
}

// formFiles 收集 f.<id> 文件字段
func formFiles(c *gin.Context) map[string][]*multipart.FileHeader {
	if c.Request.MultipartForm == nil {
		return nil
	}
	files := make(map[string][]*multipart.FileHeader)
	for key, list := range c.Request.MultipartForm.File {
		if id := strings.TrimPrefix(key, dto.FilePrefix); id != key && id != "" {
			files[id] = list
		}
	}
	return files
}
