// Package session keeps the server side state of every browser session
// Package session 保存每个浏览器会话的服务端状态
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/cba"
)

// Session 浏览器会话
// Tree and State are only touched from the session's serial queue.
// Tree 与 State 只在会话的串行队列中访问。
type Session struct {
	ID    string
	Tree  *cba.Tree
	State *cba.MapState

	mu       sync.RWMutex
	uid      int64
	username string

	lastAccess atomic.Int64
	createdAt  time.Time
}

func newSession(id string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		Tree:      cba.NewTree(),
		State:     cba.NewMapState(),
		createdAt: now,
	}
	s.lastAccess.Store(now.UnixNano())
	return s
}

func (s *Session) UID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Login 设置会话用户
func (s *Session) Login(uid int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = uid
	s.username = username
}

// Logout 清除会话用户
func (s *Session) Logout() {
	s.Login(0, "")
}

// Touch 更新最后访问时间
func (s *Session) Touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

// LastAccess 最后访问时间
func (s *Session) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// CreatedAt 创建时间
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

var _ cba.Identity = (*Session)(nil)
