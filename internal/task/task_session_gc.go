package task

import (
	"context"
)

// SessionCollector 可回收空闲会话的对象
type SessionCollector interface {
	GC() int
}

// SessionGCTask collects idle browser sessions
// SessionGCTask 回收空闲的浏览器会话
type SessionGCTask struct {
	sessions SessionCollector
	spec     string
}

// NewSessionGCTask 创建会话回收任务
func NewSessionGCTask(sessions SessionCollector, spec string) *SessionGCTask {
	if spec == "" {
		spec = "@every 1m"
	}
	return &SessionGCTask{sessions: sessions, spec: spec}
}

func (t *SessionGCTask) Name() string {
	return "SessionGC"
}

func (t *SessionGCTask) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.sessions.GC()
	return nil
}

func (t *SessionGCTask) Spec() string {
	return t.spec
}

func (t *SessionGCTask) IsStartupRun() bool {
	return false
}
