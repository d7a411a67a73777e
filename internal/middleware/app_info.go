package middleware

import (
	"github.com/gin-gonic/gin"
)

// gin 上下文中的应用信息键
const (
	AppNameKey    = "app_name"
	AppVersionKey = "app_version"
)

// AppInfo exposes the application name and version to handlers and the page shell
// AppInfo 向处理器与页面外壳提供应用名称与版本
func AppInfo(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AppNameKey, name)
		c.Set(AppVersionKey, version)
		c.Header("X-App-Version", version)
		c.Next()
	}
}

// GetAppName returns the name set by AppInfo, fallback when the middleware is absent
// GetAppName 返回 AppInfo 设置的应用名称，未设置时返回 fallback
func GetAppName(c *gin.Context, fallback string) string {
	if name := c.GetString(AppNameKey); name != "" {
		return name
	}
	return fallback
}
