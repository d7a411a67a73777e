package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	internalApp "github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/haierkeys/fast-note-web/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultSecretPlaceholder 内置配置模板中的会话密钥占位符
const defaultSecretPlaceholder = "fast-note-web-session"

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 指定要使用的配置文件路径
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				path, err := resolveConfigPath()
				if err != nil {
					bootstrapLogger.Error("config file auto create error", zap.Error(err))
					return
				}
				runEnv.config = path
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			reload := make(chan string, 1)
			w := watchConfig(runEnv.config, reload)
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

			for {
				select {
				case file := <-reload:
					s.logger.Info("config watcher change, restarting server", zap.String("file", file))
					s.sc.SendCloseSignal(nil)
					if err := s.sc.WaitClosed(); err != nil {
						s.logger.Error("Shutdown before reload completed with error", zap.Error(err))
					}

					// 重新初始化 server
					next, err := NewServer(runEnv)
					if err != nil {
						bootstrapLogger.Error("service restart err", zap.Error(err))
						return
					}
					s = next

				case sig := <-quit:
					s.logger.Info("Received shutdown signal, initiating graceful shutdown...", zap.String("signal", sig.String()))
					s.sc.SendCloseSignal(nil)

					// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
					if err := s.sc.WaitClosed(); err != nil {
						s.logger.Error("Shutdown completed with error", zap.Error(err))
					} else {
						s.logger.Info("Service has been shut down gracefully.")
					}

					if sig == syscall.SIGHUP {
						// SIGHUP 重新执行当前二进制
						currentBinary, err := os.Executable()
						if err != nil {
							bootstrapLogger.Error("Failed to locate executable", zap.Error(err))
							return
						}
						if err := internalApp.RestartProcess(currentBinary, os.Args, os.Environ()); err != nil {
							bootstrapLogger.Error("Failed to restart process", zap.Error(err))
						}
					}
					return
				}
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// resolveConfigPath finds the config file, writing the embedded template on first start
// resolveConfigPath 查找配置文件，首次启动时写入内置模板
func resolveConfigPath() (string, error) {
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	path := "config/config.yaml"
	content := strings.Replace(configDefault, defaultSecretPlaceholder, util.GetRandomString(32), 1)

	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
	return path, nil
}

// watchConfig polls the config file and reports writes on reload
// watchConfig 轮询配置文件，写入时通过 reload 通知
func watchConfig(path string, reload chan<- string) *watcher.Watcher {
	w := watcher.New()

	// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
	w.SetMaxEvents(1)

	// 只通知写入事件。
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				select {
				case reload <- event.Path:
				default:
				}
			case err := <-w.Error:
				bootstrapLogger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				return
			}
		}
	}()

	if err := w.Add(path); err != nil {
		bootstrapLogger.Error("config watcher file error", zap.Error(err))
		return w
	}

	go func() {
		if err := w.Start(time.Second * 5); err != nil {
			bootstrapLogger.Error("config watcher start error", zap.Error(err))
		}
	}()
	return w
}
