//go:build !windows

package app

import (
	"syscall"
)

// RestartProcess replaces the running server with a fresh copy of the binary, the pid stays the same
// RestartProcess 用新的二进制替换当前服务进程，pid 不变
func RestartProcess(argv0 string, args []string, env []string) error {
	return syscall.Exec(argv0, args, env)
}
