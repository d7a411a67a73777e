package session

import (
	"sync"
	"time"

	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config 会话配置
type Config struct {
	// IdleTimeout sessions not accessed for this long are collected, 0 disables expiry
	// IdleTimeout 超过该时长未访问的会话会被回收，0 表示不过期
	IdleTimeout time.Duration
}

// Manager holds the sessions of the process in memory
// Manager 在内存中保存进程内的全部会话
type Manager struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	active  prometheus.Gauge
	onEvict []func(id string)
}

// NewManager 创建会话管理器，reg 为空时不导出指标
func NewManager(cfg Config, logger *zap.Logger, reg prometheus.Registerer) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cba_sessions_active",
			Help: "Number of live browser sessions.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.active)
	}
	return m
}

// OnEvict registers a callback run after a session is removed
// OnEvict 注册会话被移除后的回调
func (m *Manager) OnEvict(fn func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = append(m.onEvict, fn)
}

// Create 创建新会话
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.active.Set(float64(n))
	m.logger.Debug("session created", zap.String(logger.FieldSessionID, s.ID))
	return s
}

// Get returns a live session and refreshes its access time; expired sessions are not returned
// Get 返回有效会话并刷新访问时间，过期会话不返回
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := m.now()
	if m.expired(s, now) {
		m.Remove(id)
		return nil, false
	}
	s.Touch(now)
	return s, true
}

// Remove 删除会话
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	hooks := m.onEvict
	m.mu.Unlock()

	if !ok {
		return
	}
	m.active.Set(float64(n))
	for _, fn := range hooks {
		fn(id)
	}
}

// GC removes idle sessions and returns how many were removed
// GC 移除空闲会话，返回移除数量
func (m *Manager) GC() int {
	now := m.now()
	var idle []string
	m.mu.RLock()
	for id, s := range m.sessions {
		if m.expired(s, now) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range idle {
		m.Remove(id)
	}
	if len(idle) > 0 {
		m.logger.Info("idle sessions collected", zap.Int("count", len(idle)), zap.Int("remaining", m.Count()))
	}
	return len(idle)
}

// Count 当前会话数量
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.config.IdleTimeout > 0 && now.Sub(s.LastAccess()) > m.config.IdleTimeout
}
