// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/storage"
	"github.com/haierkeys/fast-note-web/pkg/util"
	"github.com/haierkeys/fast-note-web/pkg/workerpool"
	"github.com/haierkeys/fast-note-web/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database dao.Config     `yaml:"database"`
	Storage  storage.Config `yaml:"storage"`
	Session  SessionConfig  `yaml:"session"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracer   TracerConfig   `yaml:"tracer"`
	App      AppSettings    `yaml:"app"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug / release
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 监听地址
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（pprof），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen"`
	// Lang 默认语言 en / zh_cn
	Lang string `yaml:"lang" default:"en"`
}

// SessionConfig 浏览器会话配置
type SessionConfig struct {
	// CookieName 会话 Cookie 名称
	CookieName string `yaml:"cookie-name" default:"fast_note_session"`
	// CookieSecure 仅通过 HTTPS 发送 Cookie
	CookieSecure bool `yaml:"cookie-secure"`
	// IdleTimeout 会话空闲超时，支持格式：30m、2h、1d
	IdleTimeout string `yaml:"idle-timeout" default:"2h"`
	// GCSpec 会话回收任务的 cron 表达式
	GCSpec string `yaml:"gc-spec" default:"@every 1m"`
	// QueueCapacity 每个会话排队事件的上限
	QueueCapacity int `yaml:"queue-capacity" default:"32"`
	// EventTimeout 单个事件的处理上限
	EventTimeout string `yaml:"event-timeout" default:"30s"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// TokenSecret 会话 Cookie 的签名密钥
	TokenSecret string `yaml:"token-secret" default:"fast-note-web-session"`
	// TokenExpiry Cookie 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"7d"`
}

// MetricsConfig prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址 host:port，为空时不上报
	JaegerAgent string `yaml:"jaeger-agent"`
	// ServiceName 上报的服务名
	ServiceName string `yaml:"service-name" default:"fast-note-web"`
	// SampleRate 采样比例，0 或 1 表示全部采样
	SampleRate float64 `yaml:"sample-rate" default:"1"`
}

// AppSettings 应用设置
type AppSettings struct {
	// PageSize 笔记表格每页行数
	PageSize int `yaml:"page-size" default:"10"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// UploadMaxSize 单个上传文件的上限
	UploadMaxSize string `yaml:"upload-max-size" default:"10MB"`
	// UploadConcurrency 每次保存并行存储的文件数
	UploadConcurrency int `yaml:"upload-concurrency" default:"4"`
	// LoginRatePerMinute 每个客户端每分钟的登录尝试次数
	LoginRatePerMinute int64 `yaml:"login-rate-per-minute" default:"10"`
	// EventRatePerSecond 事件接口每秒允许的请求数
	EventRatePerSecond int64 `yaml:"event-rate-per-second" default:"200"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// defaults.Set only fills zero values, so keys present in the file with empty values get their defaults here
	// defaults.Set 只填充零值，YAML 中存在但为空的字段在这里补默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, File: c.Log.File, Production: c.Log.Production}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()
	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	return cfg
}

// GetEventQueueConfig 获取会话事件队列配置
func (c *AppConfig) GetEventQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()
	if c.Session.QueueCapacity > 0 {
		cfg.QueueCapacity = c.Session.QueueCapacity
	}
	if timeout, err := util.ParseDuration(c.Session.EventTimeout); err == nil && timeout > 0 {
		cfg.Timeout = timeout
	}
	if idle, err := util.ParseDuration(c.Session.IdleTimeout); err == nil && idle > 0 {
		cfg.IdleTimeout = idle
	}
	return cfg
}

// GetSessionIdleTimeout 获取会话空闲超时
func (c *AppConfig) GetSessionIdleTimeout() time.Duration {
	if d, err := util.ParseDuration(c.Session.IdleTimeout); err == nil {
		return d
	}
	return 2 * time.Hour
}

// GetTokenExpiry 获取 Cookie 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		return expiry
	}
	return 7 * 24 * time.Hour
}

// GetUploadMaxSize 获取单个上传文件的字节上限
func (c *AppConfig) GetUploadMaxSize() int64 {
	return util.ParseSize(c.App.UploadMaxSize, 10<<20)
}

// GetContextTimeout 获取请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}
