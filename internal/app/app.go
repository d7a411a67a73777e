package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-web/internal/components"
	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/service"
	"github.com/haierkeys/fast-note-web/internal/session"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/limiter"
	"github.com/haierkeys/fast-note-web/pkg/storage"
	"github.com/haierkeys/fast-note-web/pkg/workerpool"
	"github.com/haierkeys/fast-note-web/pkg/writequeue"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool *workerpool.Pool
	eventQueue *writequeue.Manager

	Storager storage.Storager

	// Repository 层
	NoteRepo domain.NoteRepository
	TagRepo  domain.TagRepository
	FileRepo domain.FileRepository
	UserRepo domain.UserRepository

	// Service 层
	NoteService service.NoteService
	TagService  service.TagService
	FileService service.FileService
	UserService service.UserService

	// 组件树
	Sessions     *session.Manager
	TokenManager pkgapp.TokenManager
	Components   *components.Components
	Dispatcher   *cba.Dispatcher
	Registry     *prometheus.Registry

	// StartTime 启动时间
	StartTime time.Time

	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例，初始化所有依赖并进行依赖注入
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		Registry:   prometheus.NewRegistry(),
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	storager, err := storage.NewClient(context.Background(), &cfg.Storage, logger)
	if err != nil {
		return nil, errors.Wrap(err, "storage client")
	}
	a.Storager = storager

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	eqConfig := cfg.GetEventQueueConfig()
	a.eventQueue = writequeue.New(&eqConfig, logger)

	a.Dao = dao.New(db, cfg.Database.AutoMigrate, logger)

	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.TagRepo = dao.NewTagRepository(a.Dao)
	a.FileRepo = dao.NewFileRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)

	svcConfig := &service.ServiceConfig{
		App: service.AppServiceConfig{
			UploadMaxSize:     cfg.GetUploadMaxSize(),
			UploadConcurrency: cfg.App.UploadConcurrency,
		},
	}
	a.TagService = service.NewTagService(a.TagRepo, logger)
	a.FileService = service.NewFileService(a.FileRepo, a.Storager, &cfg.Storage, a.workerPool, logger, svcConfig)
	a.NoteService = service.NewNoteService(a.NoteRepo, a.TagService, a.FileService, logger)
	a.UserService = service.NewUserService(a.UserRepo, logger)

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.TokenSecret,
		Expiry:    cfg.GetTokenExpiry(),
	})

	a.Sessions = session.NewManager(session.Config{IdleTimeout: cfg.GetSessionIdleTimeout()}, logger, a.Registry)
	a.Sessions.OnEvict(a.eventQueue.Forget)

	var loginLimiter *limiter.KeyLimiter
	if n := cfg.App.LoginRatePerMinute; n > 0 {
		loginLimiter = limiter.NewKeyLimiter(limiter.BucketRule{FillInterval: time.Minute, Capacity: n, Quantum: n})
	}
	a.Components = components.New(components.Deps{
		Notes:        a.NoteService,
		Tags:         a.TagService,
		Users:        a.UserService,
		Validate:     validator.New(),
		LoginLimiter: loginLimiter,
		PageSize:     cfg.App.PageSize,
		Logger:       logger,
	})
	a.Dispatcher = cba.NewDispatcher(logger, cba.NewMetrics(a.Registry))

	logger.Info("App container initialized successfully",
		zap.String("database", cfg.Database.Type),
		zap.String("storage", cfg.Storage.Type),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("eventQueueCapacity", eqConfig.QueueCapacity))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// EventRequest is one browser event addressed to a session
// EventRequest 发往某个会话的浏览器事件
type EventRequest struct {
	Event    cba.Event
	ClientIP string
	Lang     string
}

// Serial runs fn on the event queue of the session, so the tree and state of
// one session are never touched concurrently.
// Serial 在会话的事件队列上执行 fn，同一会话的组件树与状态不会被并发访问。
func (a *App) Serial(ctx context.Context, sess *session.Session, fn func() error) error {
	err := a.eventQueue.Execute(ctx, sess.ID, fn)
	switch {
	case errors.Is(err, writequeue.ErrWriteQueueFull):
		return code.ErrorEventQueueFull
	case errors.Is(err, writequeue.ErrWriteTimeout), errors.Is(err, context.DeadlineExceeded):
		return code.ErrorEventTimeout
	}
	return err
}

// RenderPage mounts the session tree when empty and renders the whole document
// RenderPage 会话树为空时构建组件，并渲染整页
func (a *App) RenderPage(ctx context.Context, sess *session.Session, page cba.Page) ([]byte, error) {
	var out []byte
	err := a.Serial(ctx, sess, func() error {
		if err := a.Components.Mount(ctx, sess.Tree, sess.State, sess); err != nil {
			return err
		}
		html, err := sess.Tree.RenderPage(page)
		out = html
		return err
	})
	return out, err
}

// HandleEvent dispatches one event on the session tree and returns the patch
// HandleEvent 在会话组件树上分发一个事件并返回补丁
func (a *App) HandleEvent(ctx context.Context, sess *session.Session, req EventRequest) (*cba.Patch, error) {
	var patch *cba.Patch
	err := a.Serial(ctx, sess, func() error {
		if len(sess.Tree.Root().ChildIDs()) == 0 {
			return code.ErrorSessionInvalid
		}
		c := cba.NewContext(ctx, sess.Tree, sess.State, sess, req.Event)
		c.ClientIP = req.ClientIP
		c.Lang = req.Lang

		p, err := a.Dispatcher.Dispatch(c)
		if err != nil {
			return translateDispatchError(err)
		}
		patch = p
		return nil
	})
	return patch, err
}

func translateDispatchError(err error) error {
	switch {
	case errors.Is(err, cba.ErrComponentNotFound):
		return code.ErrorComponentNotFound.WithDetails(err.Error())
	case errors.Is(err, cba.ErrHandlerNotFound):
		return code.ErrorHandlerNotFound.WithDetails(err.Error())
	case errors.Is(err, cba.ErrDuplicateID):
		return code.ErrorDuplicateID.WithDetails(err.Error())
	}
	var ce *code.Code
	if errors.As(err, &ce) {
		return err
	}
	return code.ErrorServerInternal.WithDetails(err.Error())
}

// Close 释放数据库连接
func (a *App) Close() error {
	if a.Dao != nil {
		if err := a.Dao.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown stops the event queues, then the worker pool, then closes the database
// Shutdown 按顺序关闭：事件队列 -> Worker Pool -> 数据库
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	if err := a.eventQueue.Shutdown(ctx); err != nil {
		a.logger.Warn("event queue shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("event queue shutdown: %w", err))
	}

	if err := a.workerPool.Shutdown(ctx); err != nil {
		a.logger.Warn("Worker pool shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors", zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待），返回完成回调
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return a.wg.Done
}
