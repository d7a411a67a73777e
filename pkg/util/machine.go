package util

import (
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID returns a stable id of the host, hashed with the application name
// GetMachineID 获取当前机器的唯一标识符（按应用名哈希）
// Empty when the platform exposes no machine id.
// 平台不提供机器 ID 时返回空字符串。
func GetMachineID() string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ProtectedID("fast-note-web"); err == nil {
			machineID = id
		}
	})
	return machineID
}
