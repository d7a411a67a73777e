package middleware

import (
	"net/http"
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound answers unknown routes. Browsers navigating to a missing page get a
// short HTML notice, event clients get the JSON error.
// NoFound 处理未知路由，浏览器页面跳转返回简短 HTML，事件客户端返回 JSON 错误
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Data(http.StatusNotFound, "text/html; charset=utf-8",
				[]byte(`<!DOCTYPE html><title>404</title><p>`+code.ErrorNotFound.Lang.In(app.GetLang(c))+` <a href="/">Home</a></p>`))
			c.Abort()
			return
		}
		app.NewResponse(c).ToResponse(code.ErrorNotFound.WithDetails(c.Request.URL.Path))
		c.Abort()
	}
}
