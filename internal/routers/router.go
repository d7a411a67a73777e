package routers

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/middleware"
	"github.com/haierkeys/fast-note-web/internal/routers/api_router"
	"github.com/haierkeys/fast-note-web/internal/routers/websocket_router"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/limiter"
	"github.com/haierkeys/fast-note-web/pkg/storage"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the public engine: the page, the event endpoints, static
// assets, local uploads and metrics.
// NewRouter 构建公开路由：页面、事件接口、静态资源、本地上传文件与指标。
func NewRouter(frontendFiles embed.FS, appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()
	logger := appContainer.Logger()

	methodLimiters := limiter.NewMethodLimiter()
	if n := cfg.App.EventRatePerSecond; n > 0 {
		methodLimiters.AddBuckets(
			limiter.BucketRule{Key: api_router.EventPath, FillInterval: time.Second, Capacity: n, Quantum: n},
			limiter.BucketRule{Key: api_router.WSPath, FillInterval: time.Second, Capacity: n, Quantum: n},
		)
	}

	var wss = pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:   true,
			Recovery:           gws.Recovery,                         // 开启异常恢复
			PermessageDeflate:  gws.PermessageDeflate{Enabled: true}, // 开启压缩
			ReadMaxPayloadSize: 1024 * 1024 * 4,                      // 事件只含表单值，4MB 足够
		},
	}, logger)
	wsHandler := websocket_router.NewWSHandler(appContainer)
	wss.Use(dto.WSEvent, wsHandler.Event)

	sessionOptions := middleware.SessionOptions{
		Sessions: appContainer.Sessions,
		Tokens:   appContainer.TokenManager,
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.GetTokenExpiry(),
		},
		Logger: logger,
	}
	createSession := sessionOptions
	createSession.Create = true

	frontendStatic, _ := fs.Sub(frontendFiles, "frontend/static")

	r := gin.New()
	r.MaxMultipartMemory = cfg.GetUploadMaxSize()
	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.TraceMiddleware(middleware.TraceConfig{Enabled: cfg.Tracer.Enabled, Header: cfg.Tracer.Header}))
	r.Use(middleware.RateLimiter(methodLimiters))
	r.Use(middleware.ContextTimeout(cfg.GetContextTimeout(), api_router.WSPath))
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.RecoveryWithLogger(logger))

	cacheMiddleware := func(c *gin.Context) {
		// 设置强缓存，缓存一天
		c.Header("Cache-Control", "public, max-age=86400")
		c.Next()
	}
	r.Group(api_router.StaticPrefix, cacheMiddleware).StaticFS("/", http.FS(frontendStatic))

	pageHandler := api_router.NewPageHandler(appContainer)
	eventHandler := api_router.NewEventHandler(appContainer)
	healthHandler := api_router.NewHealthHandler(appContainer)

	r.GET("/", middleware.Session(createSession), pageHandler.Index)
	r.POST(api_router.EventPath, middleware.Session(sessionOptions), eventHandler.Dispatch)
	r.GET(api_router.WSPath, middleware.Session(sessionOptions), wss.Run())

	r.GET("/health", healthHandler.Check)
	r.GET("/version", healthHandler.Version)

	if cfg.Storage.IsEnabled && cfg.Storage.Type == storage.LOCAL && cfg.Storage.HttpfsIsEnable && cfg.Storage.SavePath != "" {
		r.StaticFS("/files", http.Dir(cfg.Storage.SavePath))
	}
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(appContainer.Registry, promhttp.HandlerOpts{})))
	}

	r.NoRoute(middleware.NoFound())

	return r
}
