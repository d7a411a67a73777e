package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// debugEnv 启动阶段开启调试日志的环境变量
const debugEnv = "FAST_NOTE_WEB_DEBUG"

// bootstrapLogger logs config lookup, first start and CLI commands before
// the configured logger exists
// bootstrapLogger 在配置的日志器创建前记录配置查找、首次启动与命令行操作
var bootstrapLogger = newBootstrapLogger(os.Getenv(debugEnv) != "")

func newBootstrapLogger(debug bool) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller()).Named("bootstrap")
}
