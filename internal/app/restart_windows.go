//go:build windows

package app

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// RestartProcess starts a fresh copy of the server and exits the current one
// RestartProcess 启动新的服务进程后退出当前进程
func RestartProcess(argv0 string, args []string, env []string) error {
	cmd := exec.Command(argv0, args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "start new server process")
	}
	os.Exit(0)
	return nil
}
